package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/handler/dto"
	"github.com/omlabs/zapbridge/internal/taskhistory"
)

// handleCreateProduct creates a product. A non-zero parent_id creates a
// variation, recorded under its parent product.
func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Name == "" {
		h.recordAction(ctx, taskhistory.ResourceProduct,
			domain.ActionCreate(taskhistory.ResourceProduct, domain.NewAPIError("rest_invalid_param", "Name is required.")),
			0, nil)
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	if req.ParentID > 0 {
		parent, err := h.productRepo.GetByID(ctx, req.ParentID)
		if err != nil || parent.IsVariation() {
			noChild := int64(0)
			h.recordAction(ctx, taskhistory.ResourceProduct,
				domain.ActionCreate("product_variation", domain.NewAPIError("rest_invalid_id", "Invalid ID.")),
				req.ParentID, &noChild)
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "parent_id must reference an existing top-level product")
			return
		}
	}

	product := &domain.Product{
		ParentID: req.ParentID,
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    req.Price,
	}
	if err := h.productRepo.Create(ctx, product); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	if product.IsVariation() {
		h.recordAction(ctx, taskhistory.ResourceProduct,
			domain.ActionCreate("product_variation", nil), product.ParentID, &product.ID)
	} else {
		h.recordAction(ctx, taskhistory.ResourceProduct,
			domain.ActionCreate(taskhistory.ResourceProduct, nil), product.ID, nil)
	}
	h.dispatch(ctx, "product.created", product.ID)

	respondJSON(w, http.StatusCreated, product)
}

// handleUpdateProduct updates a product or variation.
func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	product, err := h.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			h.recordAction(ctx, taskhistory.ResourceProduct,
				domain.ActionUpdate(taskhistory.ResourceProduct, domain.NewAPIError("rest_invalid_id", "Invalid ID.")),
				0, nil)
		}
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := h.productRepo.Update(ctx, product); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	if product.IsVariation() {
		h.recordAction(ctx, taskhistory.ResourceProduct,
			domain.ActionUpdate("product_variation", nil), product.ParentID, &product.ID)
	} else {
		h.recordAction(ctx, taskhistory.ResourceProduct,
			domain.ActionUpdate(taskhistory.ResourceProduct, nil), product.ID, nil)
	}
	h.dispatch(ctx, "product.updated", product.ID)

	respondJSON(w, http.StatusOK, product)
}
