package dto

import "github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Redis     string `json:"redis"`
}

// DeleteRequest is the optional body of DELETE /users/:id and
// DELETE /products/:id.
type DeleteRequest struct {
	AdminEmail string `json:"adminEmail"`
}

// Auth

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Message     string      `json:"message"`
	Token       string      `json:"token"`
	RedirectURL string      `json:"redirectUrl"`
	User        SessionUser `json:"user"`
}

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type UpdateProfileResponse struct {
	UpdatedUser *models.User `json:"updatedUser"`
}

// Users

type CreateUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	AdminEmail string `json:"adminEmail"`
}

// UpdateUserRequest uses pointers so absent fields leave the record alone.
type UpdateUserRequest struct {
	Name            *string  `json:"name"`
	Email           *string  `json:"email"`
	Password        *string  `json:"password"`
	Role            *string  `json:"role"`
	IsEmailVerified *bool    `json:"isEmailVerified"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	AdminEmail      string   `json:"adminEmail"`
}

// Products

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Material    string `json:"material"`
	Price       Number `json:"price"`
	Stock       Number `json:"stock"`
	AdminEmail  string `json:"adminEmail"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Material    *string `json:"material"`
	Price       Number  `json:"price"`
	Stock       Number  `json:"stock"`
	AdminEmail  string  `json:"adminEmail"`
}

// Orders

type PlaceOrderRequest struct {
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	Contact       string            `json:"contact"`
	PaymentMethod string            `json:"payment_method"`
	Items         []models.LineItem `json:"items"`
	TotalAmount   Number            `json:"totalAmount"`
	Latitude      *float64          `json:"latitude"`
	Longitude     *float64          `json:"longitude"`
}

type PlaceOrderResponse struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order"`
}

// Cart

type SaveCartRequest struct {
	Items []models.LineItem `json:"items"`
}

// Riders

type RiderLocationResponse struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}
