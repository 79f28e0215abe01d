// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package permission implements the composable access predicates shared by
every resource endpoint.

A predicate answers two questions: whether the caller may perform an action
at all ([Permission.HasPermission]) and, once the target row is loaded,
whether the caller may perform it on that particular object
([Permission.HasObjectPermission]).

Predicates are grouped in a [Set]. A request passes a set only when every
predicate in it allows the request.

Denials map to HTTP statuses as follows:

  - Anonymous caller: 401 Unauthorized.
  - Authenticated caller: 403 Forbidden.
  - Predicates implementing [Denier] choose their own error (e.g. 405 for PUT).
*/
package permission

import (
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// Action names the operation a request performs on a resource collection.
type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

const (
	msgNotAuthenticated = "Authentication credentials were not provided."
	msgForbidden        = "You do not have permission to perform this action."
)

// Request carries what a predicate needs to decide.
type Request struct {
	Method    string
	Action    Action
	Principal *sec.Principal
}

// Authenticated reports whether the caller presented a valid token.
func (r Request) Authenticated() bool {
	return r.Principal != nil
}

// SafeMethod reports whether the request cannot modify state.
func (r Request) SafeMethod() bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Owned is implemented by objects that have an author.
type Owned interface {
	OwnerID() int64
}

// Permission is a single access predicate.
type Permission interface {
	HasPermission(request Request) bool
	HasObjectPermission(request Request, object Owned) bool
}

// Denier lets a predicate replace the default 401/403 denial.
type Denier interface {
	Deny(request Request) *apperr.AppError
}

// # Predicates

// predicate adapts plain functions to [Permission].
type predicate struct {
	name   string
	check  func(Request) bool
	object func(Request, Owned) bool
}

func (p predicate) HasPermission(request Request) bool { return p.check(request) }

func (p predicate) HasObjectPermission(request Request, object Owned) bool {
	if p.object == nil {
		return true
	}
	return p.object(request, object)
}

func (p predicate) String() string { return p.name }

// putNotAllowed rejects full updates. Resources only accept PATCH.
type putNotAllowed struct{}

func (putNotAllowed) HasPermission(request Request) bool { return request.Action != ActionUpdate }

func (putNotAllowed) HasObjectPermission(request Request, _ Owned) bool {
	return request.Action != ActionUpdate
}

func (putNotAllowed) Deny(request Request) *apperr.AppError {
	return apperr.MethodNotAllowed("Method \"" + request.Method + "\" not allowed.")
}

var (
	// IsAuthenticated admits any caller with a valid token.
	IsAuthenticated Permission = predicate{
		name:  "IsAuthenticated",
		check: func(r Request) bool { return r.Authenticated() },
	}

	// IsAuthenticatedOrReadOnly admits reads from anyone and writes from authenticated callers.
	IsAuthenticatedOrReadOnly Permission = predicate{
		name:  "IsAuthenticatedOrReadOnly",
		check: func(r Request) bool { return r.SafeMethod() || r.Authenticated() },
	}

	// IsAdminOrReadOnly admits reads from anyone and writes from administrators.
	IsAdminOrReadOnly Permission = predicate{
		name: "IsAdminOrReadOnly",
		check: func(r Request) bool {
			return r.SafeMethod() || r.Principal.CanAdminister()
		},
	}

	// IsAdminOrDenied admits administrators only, reads included.
	IsAdminOrDenied Permission = predicate{
		name:  "IsAdminOrDenied",
		check: func(r Request) bool { return r.Principal.CanAdminister() },
	}

	// IsOwnerOrModeratorOrReadOnly lets anyone read, authenticated callers create,
	// and only the author or a moderator change an existing object.
	IsOwnerOrModeratorOrReadOnly Permission = predicate{
		name:  "IsOwnerOrModeratorOrReadOnly",
		check: func(r Request) bool { return r.SafeMethod() || r.Authenticated() },
		object: func(r Request, object Owned) bool {
			if r.SafeMethod() {
				return true
			}
			if !r.Authenticated() {
				return false
			}
			return object.OwnerID() == r.Principal.UserID || r.Principal.CanModerate()
		},
	}

	// PutNotAllowed answers 405 to full updates at both check levels.
	PutNotAllowed Permission = putNotAllowed{}
)

// # Sets

// Set is a conjunction of predicates evaluated in order.
type Set []Permission

// Check evaluates the request-level predicates and returns the first denial.
func (s Set) Check(request Request) error {
	for _, permission := range s {
		if !permission.HasPermission(request) {
			return deny(permission, request)
		}
	}
	return nil
}

// CheckObject evaluates the object-level predicates and returns the first denial.
func (s Set) CheckObject(request Request, object Owned) error {
	for _, permission := range s {
		if !permission.HasObjectPermission(request, object) {
			return deny(permission, request)
		}
	}
	return nil
}

// Authorize runs the object-level check for an HTTP request.
//
// Handlers call it after loading the target so a missing object is still
// reported as 404 before any ownership decision.
func (s Set) Authorize(request *http.Request, action Action, object Owned) error {
	return s.CheckObject(FromRequest(request, action), object)
}

// Handle wraps next with the request-level check for action.
func (s Set) Handle(action Action, next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := s.Check(FromRequest(request, action)); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next(writer, request)
	}
}

// FromRequest builds a predicate input from an HTTP request.
func FromRequest(request *http.Request, action Action) Request {
	return Request{
		Method:    request.Method,
		Action:    action,
		Principal: ctxutil.GetPrincipal(request.Context()),
	}
}

func deny(permission Permission, request Request) error {
	var err *apperr.AppError

	denier, custom := permission.(Denier)
	switch {
	case custom:
		err = denier.Deny(request)
	case !request.Authenticated():
		err = apperr.Unauthorized(msgNotAuthenticated)
	default:
		err = apperr.Forbidden(msgForbidden)
	}

	metrics.RecordPermissionDenial(string(request.Action), err.HTTPStatus)
	return err
}
