package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/idx"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"github.com/aussiebroadwan/userdir/pkg/usersdk"
)

const (
	msgEmailTaken = "The user with this email already exists in the system."
	msgNotFound   = "User not found"
	msgInternal   = "Internal server error"

	defaultLimit = 100
	maxBodyBytes = 1 << 20
)

// UsersHandler serves the /users endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleCreate handles POST /users/
//
//	@Summary		Create User
//	@Description	Registers a new user. The password is hashed before storage and never returned.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.UserCreateRequest			true	"User to create"
//	@Success		200		{object}	usersdk.UserPublic					"Created user"
//	@Failure		400		{object}	usersdk.ErrorResponse				"Email already registered"
//	@Failure		422		{object}	usersdk.ValidationErrorResponse		"Invalid input"
//	@Failure		429		{object}	usersdk.ErrorResponse				"Rate limited"
//	@Failure		500		{object}	usersdk.ErrorResponse				"Internal server error"
//	@Router			/users/ [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req usersdk.UserCreateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeValidation(w, []usersdk.ValidationDetail{{
			Loc:  []string{usersdk.LocBody},
			Msg:  "invalid JSON body",
			Type: "json_invalid",
		}})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeValidation(w, details)
		return
	}

	user, err := h.UserService.Create(ctx, domain.UserDraft{
		Name:        req.Name,
		Surname:     req.Surname,
		Age:         *req.Age,
		Email:       req.Email,
		Password:    req.Password,
		IsSuperuser: req.IsSuperuser,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteDetail(w, http.StatusBadRequest, msgEmailTaken)
		return
	default:
		log.Error("failed to create user", "error", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	log.Info("user created", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, toPublic(user))
}

// HandleList handles GET /users/
//
//	@Summary		List Users
//	@Description	Returns a page of users in creation order plus the total user count.
//	@Tags			Users
//	@Produce		json
//	@Param			skip	query		int									false	"Records to skip"	default(0)	minimum(0)
//	@Param			limit	query		int									false	"Page size"			default(100)	minimum(0)	maximum(1000)
//	@Success		200		{object}	usersdk.UsersPublic					"Page of users"
//	@Failure		422		{object}	usersdk.ValidationErrorResponse		"Invalid paging parameters"
//	@Failure		429		{object}	usersdk.ErrorResponse				"Rate limited"
//	@Failure		500		{object}	usersdk.ErrorResponse				"Internal server error"
//	@Router			/users/ [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var (
		params  usersdk.ListUsersParams
		details []usersdk.ValidationDetail
	)
	params.Skip, details = queryInt(r, "skip", details)
	params.Limit, details = queryInt(r, "limit", details)
	if len(details) == 0 {
		details = params.Validate()
	}
	if len(details) > 0 {
		writeValidation(w, details)
		return
	}

	skip, limit := 0, defaultLimit
	if params.Skip != nil {
		skip = *params.Skip
	}
	if params.Limit != nil {
		limit = *params.Limit
	}

	users, count, err := h.UserService.List(ctx, skip, limit)
	if err != nil {
		log.Error("failed to list users", "error", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	data := make([]usersdk.UserPublic, len(users))
	for i, u := range users {
		data[i] = toPublic(u)
	}

	httpx.WriteJSON(w, http.StatusOK, usersdk.UsersPublic{Data: data, Count: count})
}

// HandleGet handles GET /users/{id}
//
//	@Summary		Get User
//	@Description	Fetches a single user by id.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string								true	"User ULID"
//	@Success		200	{object}	usersdk.UserPublic					"User"
//	@Failure		404	{object}	usersdk.ErrorResponse				"User not found"
//	@Failure		422	{object}	usersdk.ValidationErrorResponse		"Malformed id"
//	@Failure		429	{object}	usersdk.ErrorResponse				"Rate limited"
//	@Failure		500	{object}	usersdk.ErrorResponse				"Internal server error"
//	@Router			/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		writeValidation(w, []usersdk.ValidationDetail{{
			Loc:  []string{usersdk.LocPath, "id"},
			Msg:  "must be a valid ULID",
			Type: "ulid_parsing",
		}})
		return
	}

	user, found, err := h.UserService.GetByID(ctx, id.String())
	if err != nil {
		log.Error("failed to get user", "user_id", id, "error", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if !found {
		httpx.WriteDetail(w, http.StatusNotFound, msgNotFound)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPublic(user))
}

func toPublic(u domain.User) usersdk.UserPublic {
	return usersdk.UserPublic{
		ID:          u.ID,
		Name:        u.Name,
		Surname:     u.Surname,
		Age:         u.Age,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
	}
}

func writeValidation(w http.ResponseWriter, details []usersdk.ValidationDetail) {
	httpx.WriteJSON(w, http.StatusUnprocessableEntity, usersdk.ValidationErrorResponse{Detail: details})
}

// queryInt parses an optional integer query parameter, appending a
// validation entry when it is present but not an integer.
func queryInt(r *http.Request, name string, details []usersdk.ValidationDetail) (*int, []usersdk.ValidationDetail) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, details
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, append(details, usersdk.ValidationDetail{
			Loc:  []string{usersdk.LocQuery, name},
			Msg:  "must be a valid integer",
			Type: "int_parsing",
		})
	}
	return &v, details
}
