package graph

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/user/blogql-go/apperror"
)

// Handler serves the GraphQL endpoint. It is the single point where resolver
// errors are translated into HTTP status codes: an AppError surfaces as its
// status with a {message, data} body, any other resolver error as 500.
// Successful executions return the standard GraphQL {data} envelope.
type Handler struct {
	schema graphql.Schema
}

// NewHandler creates the GraphQL HTTP handler.
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

type requestBody struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{Message: "only POST is supported"})
		return
	}

	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Message: "invalid request body: " + err.Error()})
		return
	}
	defer r.Body.Close()

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  body.Query,
		OperationName:  body.OperationName,
		VariableValues: body.Variables,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		if appErr := resolverError(result.Errors); appErr != nil {
			writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
			return
		}
		if result.Data == nil {
			// The query never executed: syntax or schema validation failure.
			writeJSON(w, http.StatusBadRequest, result)
			return
		}
		writeJSON(w, http.StatusInternalServerError, apperror.ErrorResponse{Message: result.Errors[0].Message})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// resolverError digs through the engine's error wrapping for an AppError
// thrown by a resolver.
func resolverError(formatted []gqlerrors.FormattedError) *apperror.AppError {
	for _, fe := range formatted {
		err := fe.OriginalError()
		for err != nil {
			if nested, ok := err.(gqlerrors.FormattedError); ok {
				err = nested.OriginalError()
				continue
			}
			var gqlErr *gqlerrors.Error
			if errors.As(err, &gqlErr) && gqlErr.OriginalError != nil {
				err = gqlErr.OriginalError
				continue
			}
			if appErr, ok := apperror.FromError(err); ok {
				return appErr
			}
			err = errors.Unwrap(err)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"message":"failed to encode response"}`, http.StatusInternalServerError)
	}
}
