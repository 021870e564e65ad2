package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/HuongNV13/moodle-block-todo/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetItems(c *gin.Context)
	HandleAddItem(c *gin.Context)
	HandleToggleItem(c *gin.Context)
	HandleDeleteItem(c *gin.Context)
}

type handlerImpl struct {
	logger     zerolog.Logger
	auth       services.AuthService
	sessions   services.SessionService
	items      services.ItemService
	authorizer services.Authorizer
	contexts   services.ContextResolver
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	itemService services.ItemService,
	authorizer services.Authorizer,
	contextResolver services.ContextResolver,
) Handler {
	return &handlerImpl{
		logger:     logger,
		auth:       authService,
		sessions:   sessionService,
		items:      itemService,
		authorizer: authorizer,
		contexts:   contextResolver,
	}
}
