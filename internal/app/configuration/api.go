package configuration

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/form3tech-oss/pact-consumer/internal/app/engine"
	"github.com/form3tech-oss/pact-consumer/internal/app/httpresponse"
	"github.com/form3tech-oss/pact-consumer/pkg/consumer"
	"github.com/form3tech-oss/pact-consumer/pkg/engineclient"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ServeEngineAPI starts the engine HTTP API on port in the background.
func ServeEngineAPI(port int, e *engine.Engine) *echo.Echo {
	server := NewEngineAPI(e)

	go func() {
		address := fmt.Sprintf(":%d", port)
		if err := server.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	return server
}

func NewEngineAPI(e *engine.Engine) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Use(middleware.Recover())

	api := &engineAPI{engine: e}
	server.GET("/ready", api.readyHandler)

	server.POST("/pacts", api.postPactHandler)
	server.PUT("/pacts/:pact/specification", api.putSpecificationHandler)
	server.POST("/pacts/:pact/metadata", api.postPactMetadataHandler)
	server.POST("/pacts/:pact/interactions", api.postInteractionHandler)
	server.POST("/pacts/:pact/messages", api.postMessageHandler)
	server.POST("/pacts/:pact/write", api.postWriteHandler)

	server.PUT("/interactions/:id/description", api.putDescriptionHandler)
	server.POST("/interactions/:id/states", api.postStateHandler)
	server.PUT("/interactions/:id/request", api.putRequestHandler)
	server.POST("/interactions/:id/query", api.postQueryHandler)
	server.POST("/interactions/:id/headers", api.postHeaderHandler)
	server.PUT("/interactions/:id/status", api.putStatusHandler)
	server.PUT("/interactions/:id/body", api.putBodyHandler)
	server.POST("/interactions/:id/metadata", api.postMessageMetadataHandler)
	server.PUT("/interactions/:id/contents", api.putContentsHandler)
	server.GET("/interactions/:id/reify", api.getReifyHandler)

	return server
}

type engineAPI struct {
	engine *engine.Engine
}

func (a *engineAPI) readyHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (a *engineAPI) postPactHandler(c echo.Context) error {
	var req engineclient.PactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	h, err := a.engine.NewPact(req.Consumer, req.Provider)
	if err != nil {
		return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to create pact. %s", err.Error()))
	}
	return c.JSON(http.StatusCreated, engineclient.HandleResponse{ID: h.ID})
}

func (a *engineAPI) putSpecificationHandler(c echo.Context) error {
	var req engineclient.SpecificationRequest
	h, err := bindPact(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithSpecification(h, consumer.Specification(req.Specification)))
}

func (a *engineAPI) postPactMetadataHandler(c echo.Context) error {
	var req engineclient.PactMetadataRequest
	h, err := bindPact(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithPactMetadata(h, req.Namespace, req.Name, req.Value))
}

func (a *engineAPI) postInteractionHandler(c echo.Context) error {
	var req engineclient.DescriptionRequest
	h, err := bindPact(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return created(c)(a.engine.NewInteraction(h, req.Description))
}

func (a *engineAPI) postMessageHandler(c echo.Context) error {
	var req engineclient.DescriptionRequest
	h, err := bindPact(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return created(c)(a.engine.NewMessage(h, req.Description))
}

func (a *engineAPI) postWriteHandler(c echo.Context) error {
	var req engineclient.WriteRequest
	h, err := bindPact(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	if req.Directory == "" {
		return c.JSON(http.StatusBadRequest, httpresponse.Error("directory is required"))
	}
	return done(c, a.engine.WritePactFile(h, req.Directory, req.Overwrite))
}

func (a *engineAPI) putDescriptionHandler(c echo.Context) error {
	var req engineclient.DescriptionRequest
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithDescription(h, req.Description))
}

func (a *engineAPI) postStateHandler(c echo.Context) error {
	var req engineclient.StateRequest
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.Given(h, req.Name, req.Params))
}

func (a *engineAPI) putRequestHandler(c echo.Context) error {
	var req engineclient.RequestLine
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithRequest(h, req.Method, req.Path))
}

func (a *engineAPI) postQueryHandler(c echo.Context) error {
	var req engineclient.IndexedValueRequest
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithQueryParameter(h, req.Name, req.Index, req.Value))
}

func (a *engineAPI) postHeaderHandler(c echo.Context) error {
	var req engineclient.IndexedValueRequest
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	part, err := consumer.ParsePart(req.Part)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithHeader(h, part, req.Name, req.Index, req.Value))
}

func (a *engineAPI) putStatusHandler(c echo.Context) error {
	var req engineclient.StatusRequest
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.ResponseStatus(h, req.Status))
}

func (a *engineAPI) putBodyHandler(c echo.Context) error {
	var req engineclient.BodyRequest
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	part, err := consumer.ParsePart(req.Part)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithBody(h, part, req.ContentType, req.Body))
}

func (a *engineAPI) postMessageMetadataHandler(c echo.Context) error {
	var req engineclient.MessageMetadataRequest
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithMessageMetadata(h, req.Key, req.Value))
}

func (a *engineAPI) putContentsHandler(c echo.Context) error {
	var req engineclient.ContentsRequest
	h, err := bindInteraction(c, &req)
	if err != nil {
		return badRequest(c, err)
	}
	return done(c, a.engine.WithMessageContents(h, req.ContentType, req.Contents))
}

func (a *engineAPI) getReifyHandler(c echo.Context) error {
	h, err := interactionParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	contents, err := a.engine.Reify(h)
	if err != nil {
		return c.JSON(httpresponse.FromEngine(err))
	}
	return c.JSON(http.StatusOK, engineclient.ReifyResponse{Contents: contents})
}

func bindPact(c echo.Context, req interface{}) (consumer.PactHandle, error) {
	id, err := handleParam(c, "pact")
	if err != nil {
		return consumer.PactHandle{}, err
	}
	return consumer.PactHandle{ID: id}, c.Bind(req)
}

func bindInteraction(c echo.Context, req interface{}) (consumer.InteractionHandle, error) {
	h, err := interactionParam(c)
	if err != nil {
		return h, err
	}
	return h, c.Bind(req)
}

func interactionParam(c echo.Context) (consumer.InteractionHandle, error) {
	id, err := handleParam(c, "id")
	return consumer.InteractionHandle{ID: id}, err
}

func handleParam(c echo.Context, name string) (uint32, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, errors.Errorf("invalid %s handle '%s'", name, c.Param(name))
	}
	return uint32(id), nil
}

func created(c echo.Context) func(consumer.InteractionHandle, error) error {
	return func(h consumer.InteractionHandle, err error) error {
		if err != nil {
			return c.JSON(httpresponse.FromEngine(err))
		}
		return c.JSON(http.StatusCreated, engineclient.HandleResponse{ID: h.ID})
	}
}

func done(c echo.Context, err error) error {
	if err != nil {
		return c.JSON(httpresponse.FromEngine(err))
	}
	return c.NoContent(http.StatusNoContent)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, httpresponse.Errorf("unable to parse request. %s", err.Error()))
}
