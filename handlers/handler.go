package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"assetverse/cache"
	"assetverse/events"
	"assetverse/middleware"
	"assetverse/payment"
	"assetverse/utils"
)

const requestTimeout = 10 * time.Second

// Deps is everything the handlers talk to. Optional collaborators
// (Gateway, Events, Cache, Tx, Health) may be left nil.
type Deps struct {
	Users          UserStore
	Assets         AssetStore
	Requests       RequestStore
	Packages       PackageStore
	Payments       PaymentStore
	Affiliations   AffiliationStore
	AssignedAssets AssignedAssetStore

	Tx      Transactor
	Health  Pinger
	Gateway payment.Gateway
	Events  events.Publisher
	Cache   cache.Cache
	Logger  *zap.Logger
	Now     func() time.Time
}

type Handler struct {
	Deps
	log *zap.Logger
}

func New(d Deps) *Handler {
	if d.Tx == nil {
		d.Tx = directTx{}
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handler{Deps: d, log: d.Logger.Named("handlers")}
}

func (h *Handler) now() time.Time {
	return h.Now().UTC()
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

// serverError logs err and answers 500, echoing the error text.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.log.Error(message,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
	)
	utils.RespondWithErrorDetail(w, http.StatusInternalServerError, message, err)
}

// validationError answers 400 with the validation message.
func validationError(w http.ResponseWriter, err error) {
	utils.RespondWithError(w, http.StatusBadRequest, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := utils.ParseJSON(r, v); err != nil {
		utils.RespondWithErrorDetail(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// pathID parses the ObjectID path variable name, answering 400 when malformed.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid "+label+" id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) publish(ctx context.Context, t events.Type, payload interface{}, audience ...string) {
	// request contexts end with the response; delivery must not depend on them
	h.Events.Publish(context.WithoutCancel(ctx), events.New(t, payload, audience...))
}

// updateSummary reports an update the way the driver's raw result reads to
// JSON clients.
func updateSummary(res *mongo.UpdateResult) map[string]interface{} {
	return map[string]interface{}{
		"acknowledged":  true,
		"matchedCount":  res.MatchedCount,
		"modifiedCount": res.ModifiedCount,
		"upsertedCount": res.UpsertedCount,
		"upsertedId":    res.UpsertedID,
	}
}
