package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/models"
	"github.com/example/bookshop/pkg/repository"
	"github.com/gin-gonic/gin"
)

func (s *Server) listItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.ItemFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		Page:         page,
		PageSize:     pageSize,
	}

	items, total, err := s.items.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "items retrieved", gin.H{
		"items": items,
		"total": total,
		"page":  page,
	})
}

func (s *Server) getItem(c *gin.Context) {
	item, err := s.resolveItem(c, c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "item retrieved", item)
}

// resolveItem accepts either the item slug or its id.
func (s *Server) resolveItem(c *gin.Context, key string) (*models.Item, error) {
	item, err := s.items.GetBySlug(c.Request.Context(), key)
	if errors.Is(err, errs.ErrNotFound) {
		return s.items.GetByID(c.Request.Context(), key)
	}
	return item, err
}
