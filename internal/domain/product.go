package domain

import (
	"strings"
	"time"
)

const (
	// DefaultCategory присваивается товару, если категория не указана.
	DefaultCategory = "general"
)

// DefaultSizes стандартная размерная сетка витрины.
var DefaultSizes = []string{"S", "M", "L", "XL"}

// Product описывает карточку товара в каталоге.
type Product struct {
	ID          string
	Name        string
	Price       float64
	Description string
	// Images хранит ссылки на изображения (URL или inline base64) в исходном порядке.
	Images    []string
	Sizes     []string
	Category  string
	InStock   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductDraft содержит провалидированные на входе поля нового товара.
type ProductDraft struct {
	Name        string
	Price       float64
	Description string
	Images      []string
	// Sizes == nil означает «использовать DefaultSizes», пустой срез сохраняется как есть.
	Sizes    []string
	Category string
	InStock  *bool
}

// ProductPatch описывает частичное обновление: nil-поля не трогаются.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
	Images      []string
	Sizes       []string
	Category    *string
	InStock     *bool
}

// NewProduct собирает товар из черновика, подставляя значения по умолчанию.
// ID назначает хранилище при сохранении.
func NewProduct(draft ProductDraft, now time.Time) Product {
	product := Product{
		Name:        strings.TrimSpace(draft.Name),
		Price:       draft.Price,
		Description: draft.Description,
		Images:      cloneStrings(draft.Images),
		Sizes:       cloneStrings(draft.Sizes),
		Category:    strings.TrimSpace(draft.Category),
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if draft.Sizes == nil {
		product.Sizes = cloneStrings(DefaultSizes)
	}
	if product.Category == "" {
		product.Category = DefaultCategory
	}
	if draft.InStock != nil {
		product.InStock = *draft.InStock
	}
	return product
}

// Apply переносит заданные в patch поля в копию товара. ID и CreatedAt не меняются.
func (p Product) Apply(patch ProductPatch, now time.Time) Product {
	updated := p
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		updated.Price = *patch.Price
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Images != nil {
		updated.Images = cloneStrings(patch.Images)
	}
	if patch.Sizes != nil {
		updated.Sizes = cloneStrings(patch.Sizes)
	}
	if patch.Category != nil {
		updated.Category = strings.TrimSpace(*patch.Category)
		if updated.Category == "" {
			updated.Category = DefaultCategory
		}
	}
	if patch.InStock != nil {
		updated.InStock = *patch.InStock
	}
	updated.UpdatedAt = now
	return updated
}

// ValidateInvariants проверяет обязательные поля товара и возвращает список нарушений.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}
	if p.Price < 0 {
		errs = append(errs, ErrPriceNegative)
	}

	return errs
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
