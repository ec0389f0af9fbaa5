package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dirkit/user-directory/internal/api/dto"
	"github.com/dirkit/user-directory/internal/auth"
	"github.com/dirkit/user-directory/internal/service"
	apperrors "github.com/dirkit/user-directory/pkg/util/errorutil"
)

// UsersHandler exposes account and directory endpoints.
type UsersHandler struct {
	auth      *service.AuthService
	directory *service.DirectoryService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, directoryService *service.DirectoryService) *UsersHandler {
	return &UsersHandler{auth: authService, directory: directoryService}
}

// Signup handles POST /api/v1/user/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	token, err := h.auth.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(dto.SignupResponse{
		Message: "User created successfully",
		Token:   token.Value,
	})
}

// Signin handles POST /api/v1/user/signin.
func (h *UsersHandler) Signin(c *fiber.Ctx) error {
	var req dto.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	token, err := h.auth.Signin(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.SigninResponse{Token: token.Value})
}

// Update handles PUT /api/v1/user/ for the authenticated caller.
func (h *UsersHandler) Update(c *fiber.Ctx, identity auth.Identity) error {
	var req dto.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	if err := h.auth.UpdateSelf(c.UserContext(), identity, req); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Updated successfully"})
}

// Bulk handles GET /api/v1/user/bulk?filter=.
func (h *UsersHandler) Bulk(c *fiber.Ctx) error {
	entries, err := h.directory.Search(c.UserContext(), c.Query("filter"))
	if err != nil {
		return err
	}

	resp := dto.BulkResponse{User: make([]dto.DirectoryUser, 0, len(entries))}
	for _, entry := range entries {
		resp.User = append(resp.User, dto.DirectoryUser{
			FirstName: entry.FirstName,
			LastName:  entry.LastName,
			ID:        entry.ID,
		})
	}
	return c.JSON(resp)
}

func invalidPayload() error {
	return apperrors.NewValidationError("incorrect inputs", map[string]any{"body": "must be a JSON object"})
}
