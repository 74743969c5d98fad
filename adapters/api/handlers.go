package api

import (
	"net/http"
	"strconv"

	"sheetclean/internal/errors"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"storage": s.service.StorageEnabled(),
	})
}

func (s *Server) handleNormalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.Wrap(errors.InvalidInput(err.Error()), "invalid request body"))
		return
	}

	clean, reports, err := s.service.NormalizeTable(&req.RawTable)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NormalizeResponse{Table: clean, Reports: reports})
}

func (s *Server) handleProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.Wrap(errors.InvalidInput(err.Error()), "invalid request body"))
		return
	}

	profile, err := s.service.ProfileTable(&req.RawTable, req.Descriptions)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleSaveTable(c *gin.Context) {
	if !s.service.StorageEnabled() {
		s.respondError(c, errors.Unavailable("table storage"))
		return
	}

	var req SaveTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.Wrap(errors.InvalidInput(err.Error()), "invalid request body"))
		return
	}

	record, clean, err := s.service.SaveTable(c.Request.Context(), req.Name, req.SourceSheet, &req.RawTable)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SaveTableResponse{Record: record, Table: clean})
}

func (s *Server) handleListTables(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	records, err := s.service.ListTables(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tables": records,
		"count":  len(records),
	})
}

func (s *Server) handleDropTable(c *gin.Context) {
	if err := s.service.DropTable(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError writes err with the status its code maps to. Server-side
// failures are logged, client mistakes are not.
func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
