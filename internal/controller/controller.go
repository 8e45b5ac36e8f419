package controller

import (
	"github.com/alimikegami/ppob-storefront/internal/dto"
	"github.com/alimikegami/ppob-storefront/internal/service"
	pkgdto "github.com/alimikegami/ppob-storefront/pkg/dto"
	"github.com/alimikegami/ppob-storefront/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	catalogService service.CatalogService
	orderService   service.OrderService
}

func CreateController(e *echo.Group, catalogService service.CatalogService, orderService service.OrderService, operatorOnly echo.MiddlewareFunc) {
	c := Controller{
		catalogService: catalogService,
		orderService:   orderService,
	}

	e.GET("/products", c.GetProducts)
	e.POST("/orders", c.Checkout)
	e.GET("/orders/:order_id", c.GetOrder)
	e.GET("/orders", c.GetOrders, operatorOnly)
	e.POST("/orders/payments/notifications", c.PaymentNotification)
	e.POST("/inquiry/pln", c.InquiryPLN)
	e.POST("/inquiry/postpaid", c.InquiryPostpaid)
}

func (c *Controller) GetProducts(e echo.Context) error {
	products, err := c.catalogService.GetPriceList(e.Request().Context(), e.QueryParam("category"), e.QueryParam("brand"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved price list", products)
}

func (c *Controller) Checkout(e echo.Context) error {
	payload := dto.CheckoutRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Checkout").Msg("")
	}

	resp, err := c.orderService.Checkout(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetOrder(e echo.Context) error {
	resp, err := c.orderService.GetOrder(e.Request().Context(), e.Param("order_id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetOrders(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
	}

	responsePayload, err := c.orderService.GetOrders(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved orders record", responsePayload)
}

func (c *Controller) PaymentNotification(e echo.Context) error {
	payload := dto.PaymentNotification{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "PaymentNotification").Msg("")
	}

	result, err := c.orderService.HandlePaymentNotification(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", result)
}

func (c *Controller) InquiryPLN(e echo.Context) error {
	payload := dto.PLNInquiryRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "InquiryPLN").Msg("")
	}

	resp, err := c.orderService.InquiryPLN(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) InquiryPostpaid(e echo.Context) error {
	payload := dto.PostpaidInquiryRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "InquiryPostpaid").Msg("")
	}

	resp, err := c.orderService.InquiryPostpaid(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
