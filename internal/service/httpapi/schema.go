package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Тела запросов. Неизвестные поля отклоняются декодером (см. init в router.go),
// обязательность и диапазоны проверяет validator через теги binding.

type createProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	Category    string   `json:"category"`
	InStock     *bool    `json:"inStock"`
}

func (r createProductRequest) toDraft() domain.ProductDraft {
	return domain.ProductDraft{
		Name:        r.Name,
		Price:       *r.Price,
		Description: r.Description,
		Images:      r.Images,
		Sizes:       r.Sizes,
		Category:    r.Category,
		InStock:     r.InStock,
	}
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	Category    *string  `json:"category"`
	InStock     *bool    `json:"inStock"`
}

func (r updateProductRequest) toPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Images:      r.Images,
		Sizes:       r.Sizes,
		Category:    r.Category,
		InStock:     r.InStock,
	}
}

type createOrderRequest struct {
	CustomerName    string   `json:"customerName" binding:"required"`
	CustomerPhone   string   `json:"customerPhone" binding:"required"`
	CustomerAddress string   `json:"customerAddress" binding:"required"`
	ProductName     string   `json:"productName" binding:"required"`
	Size            string   `json:"size" binding:"required"`
	TotalPrice      *float64 `json:"totalPrice" binding:"required,gte=0"`
}

func (r createOrderRequest) toDraft() domain.OrderDraft {
	return domain.OrderDraft{
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		ProductName:     r.ProductName,
		Size:            r.Size,
		TotalPrice:      *r.TotalPrice,
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Ответы. Идентификатор дублируется в "_id": страницы витрины и админки читают это поле.

type productResponse struct {
	ID          string    `json:"id"`
	LegacyID    string    `json:"_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Sizes       []string  `json:"sizes"`
	Category    string    `json:"category"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductResponse(p domain.Product) productResponse {
	resp := productResponse{
		ID:          p.ID,
		LegacyID:    p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Images:      p.Images,
		Sizes:       p.Sizes,
		Category:    p.Category,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if resp.Sizes == nil {
		resp.Sizes = []string{}
	}
	return resp
}

type orderResponse struct {
	ID              string    `json:"id"`
	LegacyID        string    `json:"_id"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerAddress string    `json:"customerAddress"`
	ProductName     string    `json:"productName"`
	Size            string    `json:"size"`
	TotalPrice      float64   `json:"totalPrice"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		LegacyID:        o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		ProductName:     o.ProductName,
		Size:            o.Size,
		TotalPrice:      o.TotalPrice,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
