package handlers

import (
	"restocoach/internal/app"
	userController "restocoach/internal/controllers/users"
	"restocoach/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler: Handler{
			log:        logger.New("userHandler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Get("/me", h.getCurrentUser)
	users.Put("/me/restaurant", h.updateRestaurant)
}

func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	response, err := h.userController.GetProfile(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.log.Function("getCurrentUser"), err)
	}
	return c.JSON(response)
}

func (h *UserHandler) updateRestaurant(c *fiber.Ctx) error {
	log := h.log.Function("updateRestaurant")

	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	var req userController.RestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	restaurant, err := h.userController.UpdateRestaurant(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"restaurant": restaurant})
}
