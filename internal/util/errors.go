package util

import (
	"net/http"

	"go.uber.org/zap"
)

func InternalServerErrorResponse(w http.ResponseWriter, r *http.Request, err error, logger *zap.SugaredLogger) {
	logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func BadRequestErrorResponse(w http.ResponseWriter, r *http.Request, err error, logger *zap.SugaredLogger) {
	logWarning("bad request error", r, err, logger)
	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func NotFoundErrorResponse(w http.ResponseWriter, r *http.Request, err error, logger *zap.SugaredLogger) {
	logWarning("not found error", r, err, logger)
	writeJSONError(w, http.StatusNotFound, "not found")
}

func UnauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error, logger *zap.SugaredLogger) {
	logWarning("unauthorized error", r, err, logger)
	writeJSONError(w, http.StatusUnauthorized, err.Error())
}

func ForbiddenErrorResponse(w http.ResponseWriter, r *http.Request, err error, logger *zap.SugaredLogger) {
	logWarning("forbidden error", r, err, logger)
	writeJSONError(w, http.StatusForbidden, err.Error())
}

func ConflictErrorResponse(w http.ResponseWriter, r *http.Request, err error, logger *zap.SugaredLogger) {
	logWarning("conflict error", r, err, logger)
	writeJSONError(w, http.StatusConflict, err.Error())
}

func UnprocessableEntityErrorResponse(w http.ResponseWriter, r *http.Request, err error, logger *zap.SugaredLogger) {
	logWarning("validation error", r, err, logger)
	writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
}

func logWarning(message string, r *http.Request, err error, logger *zap.SugaredLogger) {
	logger.Warnw(message, "method", r.Method, "path", r.URL.Path, "error", err.Error())
}
