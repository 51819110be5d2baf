// internal/api/router.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"playbook-engine/internal/auth"
	"playbook-engine/internal/billing"
	"playbook-engine/internal/common/config"
	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/playbook"
	"playbook-engine/internal/store"
)

// Deps is everything the HTTP surface needs; main wires it, tests substitute
// fakes.
type Deps struct {
	Config *config.Config
	Logger logger.Logger

	Sessions *auth.SessionStore

	Users         store.UserStore
	Stakeholders  store.StakeholderStore
	Playbooks     store.PlaybookStore
	MeetingGoals  store.MeetingGoalStore
	Options       store.OptionStore
	Subscriptions store.SubscriptionStore
	Search        store.StakeholderIndex

	Dispatcher *playbook.Dispatcher
	Receiver   *playbook.Receiver
	Billing    *billing.WebhookHandler
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	respond := apperrors.NewResponder(deps.Logger)

	playbooks := newPlaybookHandler(deps.Playbooks, deps.Dispatcher, respond)
	callback := newCallbackHandler(deps.Receiver, deps.Config.Worker.CallbackToken, respond)
	stakeholders := newStakeholderHandler(deps.Stakeholders, deps.Search, respond, deps.Logger)
	goals := newMeetingGoalHandler(deps.MeetingGoals, respond)
	options := newOptionHandler(deps.Options, respond)
	me := newMeHandler(deps.Users, deps.Subscriptions, respond)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	// Webhooks carry their own authentication (signature / shared secret).
	v1.POST("/webhooks/playbook", callback.Handle)
	if deps.Billing != nil {
		v1.POST("/webhooks/billing", deps.Billing.Handle)
	}

	authed := v1.Group("", auth.Middleware(deps.Sessions, deps.Logger))
	{
		authed.GET("/me", me.Get)

		authed.POST("/playbooks", playbooks.Dispatch)
		authed.GET("/playbooks", playbooks.List)
		authed.GET("/playbooks/:id", playbooks.Get)
		authed.DELETE("/playbooks/:id", playbooks.Delete)

		authed.GET("/stakeholders", stakeholders.List)
		authed.GET("/stakeholders/search", stakeholders.Search)
		authed.POST("/stakeholders", stakeholders.Create)
		authed.GET("/stakeholders/:id", stakeholders.Get)
		authed.PUT("/stakeholders/:id", stakeholders.Update)
		authed.DELETE("/stakeholders/:id", stakeholders.Delete)

		authed.GET("/meeting-goals", goals.List)
		authed.POST("/meeting-goals", goals.Create)
		authed.DELETE("/meeting-goals/:id", goals.Delete)

		authed.GET("/options/:category", options.List)
	}

	admin := authed.Group("/admin", auth.RequireAdmin(deps.Config.Auth.AdminEmails))
	{
		admin.GET("/playbooks", playbooks.AdminList)
		admin.POST("/options", options.Create)
		admin.DELETE("/options/:id", options.Delete)
	}

	return r
}
