package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Kushal-prime/kushalwearback/api/middleware"
	"github.com/Kushal-prime/kushalwearback/api/responses"
	"github.com/Kushal-prime/kushalwearback/api/validators"
	"github.com/Kushal-prime/kushalwearback/internal/products"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
)

// ListProducts returns one catalog page shaped by query filters.
func ListProducts(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), *filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, result)
	}
}

// FeaturedProducts returns the featured shelf.
func FeaturedProducts(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Featured(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{"products": result})
	}
}

// ProductsByCategory returns one page of a single category, newest first.
func ProductsByCategory(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.QueryInt(r, "page", 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.QueryInt(r, "limit", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category := chi.URLParam(r, "category")
		result, err := svc.List(r.Context(), products.ListFilters{
			Category: category,
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"category":   category,
			"products":   result.Products,
			"pagination": result.Pagination,
		})
	}
}

// SearchProducts returns one page matching the q query term.
func SearchProducts(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("q"))
		if term == "" || len(term) > 100 {
			responses.WriteError(r.Context(), logg, w,
				apperrors.New(apperrors.CodeValidation, "Search query must be between 1 and 100 characters"))
			return
		}
		page, err := validators.QueryInt(r, "page", 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.QueryInt(r, "limit", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), products.ListFilters{
			Search: term,
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"query":      term,
			"products":   result.Products,
			"pagination": result.Pagination,
		})
	}
}

// GetProduct returns one product with its reviews.
func GetProduct(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, reviews, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"product": product,
			"reviews": reviews,
		})
	}
}

// CreateProduct adds a catalog entry. Admin only.
func CreateProduct(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req products.CreateProductRequest
		if err := validators.DecodeAndValidate(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, map[string]any{
			"message": "Product created successfully",
			"product": product,
		})
	}
}

// UpdateProduct changes catalog fields. Admin only.
func UpdateProduct(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req products.UpdateProductRequest
		if err := validators.DecodeAndValidate(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"message": "Product updated successfully",
			"product": product,
		})
	}
}

// DeleteProduct soft-deletes a catalog entry. Admin only.
func DeleteProduct(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Product deleted successfully")
	}
}

// AddReview records a rating on a product.
func AddReview(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := middleware.UserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req products.ReviewRequest
		if err := validators.DecodeAndValidate(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddReview(r.Context(), productID, userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, map[string]any{
			"message": "Review added successfully",
			"product": product,
		})
	}
}

func parseListFilters(r *http.Request) (*products.ListFilters, error) {
	page, err := validators.QueryInt(r, "page", 1)
	if err != nil {
		return nil, err
	}
	limit, err := validators.QueryInt(r, "limit", 0)
	if err != nil {
		return nil, err
	}

	filters := products.ListFilters{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sort"),
		Page:     page,
		Limit:    limit,
	}

	if min, ok, err := validators.QueryFloat(r, "minPrice"); err != nil {
		return nil, err
	} else if ok {
		filters.MinPrice = &min
	}
	if max, ok, err := validators.QueryFloat(r, "maxPrice"); err != nil {
		return nil, err
	} else if ok {
		filters.MaxPrice = &max
	}
	if raw := r.URL.Query().Get("featured"); raw != "" {
		featured := raw == "true"
		filters.Featured = &featured
	}
	return &filters, nil
}
