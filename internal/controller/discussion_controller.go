package controller

import (
	"discussly-be/internal/dto"
	"discussly-be/internal/pkg/serverutils"
	"discussly-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDiscussionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetInfo(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ListTypes(ctx *fiber.Ctx) error
	ListTags(ctx *fiber.Ctx) error
	ListLimits(ctx *fiber.Ctx) error
}

type discussionController struct {
	service service.IDiscussionService
}

func NewDiscussionController(service service.IDiscussionService) IDiscussionController {
	return &discussionController{service: service}
}

func (c *discussionController) RegisterRoutes(r fiber.Router) {
	list := r.Group("/discussions", serverutils.JwtMiddleware)
	list.Get("/types", c.ListTypes)
	list.Get("/tags", c.ListTags)
	list.Get("/limits", c.ListLimits)
	list.Get("/", c.List)

	one := r.Group("/discussion", serverutils.JwtMiddleware)
	one.Post("/", c.Create)
	one.Post("/:id/info", c.GetInfo)
}

func (c *discussionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDiscussionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrValidation
	}

	email, _ := ctx.Locals("email").(string)

	res, err := c.service.Create(ctx.Context(), email, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": res.Message,
		"data":    res,
	})
}

func (c *discussionController) GetInfo(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrValidation
	}

	var req dto.DiscussionInfoRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return serverutils.ErrValidation
	}

	res, err := c.service.GetInfo(ctx.Context(), id, req.Password)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    res,
	})
}

func (c *discussionController) List(ctx *fiber.Ctx) error {
	email, _ := ctx.Locals("email").(string)

	res, err := c.service.ListByOwner(ctx.Context(), email)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    res,
	})
}

func (c *discussionController) ListTypes(ctx *fiber.Ctx) error {
	res, err := c.service.ListTypes(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    fiber.Map{"types": res},
	})
}

func (c *discussionController) ListTags(ctx *fiber.Ctx) error {
	res, err := c.service.ListTags(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    fiber.Map{"tags": res},
	})
}

func (c *discussionController) ListLimits(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    fiber.Map{"limits": c.service.LimitOptions()},
	})
}
