package mockapi

import (
	"net/http"

	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/cryptox"
)

// Currency of every order.
const Currency = "INR"

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   int64  `json:"amount"`
		PlanName string `json:"planName"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	offer, ok := entitlement.Lookup(entitlement.ParseTier(req.PlanName))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Unknown plan")
		return
	}
	if req.Amount != offer.Amount {
		respondWithError(w, http.StatusBadRequest, "Amount does not match plan price")
		return
	}

	o := &order{
		owner: userIDFrom(r.Context()),
		tier:  offer.Tier.String(),
		Order: models.Order{ID: "order_" + newID(), Amount: offer.Amount, Currency: Currency},
	}
	s.store.putOrder(o)

	respondWithJSON(w, http.StatusOK, map[string]any{"order": o.Order})
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var conf models.PaymentConfirmation
	if !decodeJSON(w, r, &conf) {
		return
	}
	if conf.OrderID == "" || conf.PaymentID == "" || conf.Signature == "" {
		respondWithError(w, http.StatusBadRequest, "Missing payment details")
		return
	}
	if !cryptox.VerifyPayment([]byte(s.cfg.PaymentSecret), conf.OrderID, conf.PaymentID, conf.Signature) {
		respondWithError(w, http.StatusBadRequest, "Invalid payment signature")
		return
	}

	id := userIDFrom(r.Context())
	o, ok := s.store.takeOrder(conf.OrderID, id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	offer, _ := entitlement.Lookup(entitlement.ParseTier(o.tier))
	plan := &models.Plan{
		Name:         o.tier,
		PurchasedAt:  models.TimePtr(s.now()),
		LinksAllowed: models.IntPtr(offer.Links),
		DesignLimit:  models.IntPtr(offer.Designs),
	}
	if err := s.SetPlan(id, plan); err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	s.logger.Info(r.Context(), "plan purchased", "user_id", id, "plan", o.tier, "order", o.ID)
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "plan": plan})
}
