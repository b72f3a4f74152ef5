package controller

import (
	"errors"
	"net/http"

	"github.com/alimikegami/point-of-sales/product-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-service/internal/service"
	"github.com/alimikegami/point-of-sales/product-service/internal/upload"
	"github.com/alimikegami/point-of-sales/product-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/product-service/pkg/response"
	"github.com/alimikegami/point-of-sales/product-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	service  service.ProductService
	uploader upload.Receiver
}

// CreateProductController mounts the product routes on g. Writes go through
// isLoggedIn; reads are public. uploadLimit guards the create body.
func CreateProductController(g *echo.Group, service service.ProductService, uploader upload.Receiver, isLoggedIn, uploadLimit echo.MiddlewareFunc) {
	c := Controller{
		service:  service,
		uploader: uploader,
	}
	g.GET("", c.GetProducts)
	g.GET("/:id", c.GetProductByID)
	g.POST("", c.AddProduct, isLoggedIn, uploadLimit)
	g.PATCH("/:id", c.UpdateProduct, isLoggedIn)
	g.DELETE("/:id", c.DeleteProduct, isLoggedIn)
}

func (c *Controller) GetProducts(e echo.Context) error {
	resp, err := c.service.GetProducts(e.Request().Context())
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "GetProducts").Msg("")
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteJSONResponse(e, http.StatusOK, resp)
}

func (c *Controller) GetProductByID(e echo.Context) error {
	resp, err := c.service.GetProductByID(e.Request().Context(), e.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return response.WriteMessageResponse(e, http.StatusNotFound, errs.ErrNotFound.Error())
		}

		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteJSONResponse(e, http.StatusOK, resp)
}

// AddProduct stores the uploaded image before the form fields are checked, so
// a request that fails validation may still leave a file behind.
func (c *Controller) AddProduct(e echo.Context) error {
	ctx := e.Request().Context()

	imagePath, err := c.uploader.Receive(e)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return response.WriteErrorResponse(e, err)
	}

	payload := dto.ProductRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
	}
	payload.ProductImage = imagePath

	userID, userName, _ := utils.ExtractTokenUser(e)
	log.Ctx(ctx).Info().Uint64("user_id", userID).Str("user_name", userName).Str("component", "AddProduct").Msg("adding product")

	resp, err := c.service.AddProduct(ctx, payload)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteJSONResponse(e, http.StatusCreated, resp)
}

func (c *Controller) UpdateProduct(e echo.Context) error {
	ctx := e.Request().Context()

	ops := []dto.UpdateOp{}
	if err := (&echo.DefaultBinder{}).BindBody(e, &ops); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return response.WriteJSONResponse(e, http.StatusBadRequest, response.ErrorResponse{Error: errs.ErrClient.Error()})
	}

	resp, err := c.service.UpdateProduct(ctx, e.Param("id"), ops)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteJSONResponse(e, http.StatusOK, resp)
}

func (c *Controller) DeleteProduct(e echo.Context) error {
	resp, err := c.service.DeleteProduct(e.Request().Context(), e.Param("id"))
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteJSONResponse(e, http.StatusOK, resp)
}
