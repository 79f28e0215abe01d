// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/permission"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

type authored int64

func (a authored) OwnerID() int64 { return int64(a) }

var (
	plainUser = &sec.Principal{UserID: 1, Username: "reader", Role: sec.RoleUser}
	moderator = &sec.Principal{UserID: 2, Username: "mod", Role: sec.RoleModerator}
	admin     = &sec.Principal{UserID: 3, Username: "boss", Role: sec.RoleAdmin}
	superuser = &sec.Principal{UserID: 4, Username: "root", Role: sec.RoleUser, IsSuperuser: true}
	staff     = &sec.Principal{UserID: 5, Username: "staff", Role: sec.RoleUser, IsStaff: true}
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return http.StatusOK
	}
	appError := apperr.As(err)
	require.NotNil(t, appError)
	return appError.HTTPStatus
}

/*
TestIsAdminOrReadOnly covers reads by anyone and writes by administrators only.
*/
func TestIsAdminOrReadOnly(t *testing.T) {
	set := permission.Set{permission.PutNotAllowed, permission.IsAdminOrReadOnly}

	cases := []struct {
		name      string
		method    string
		action    permission.Action
		principal *sec.Principal
		want      int
	}{
		{"anonymous list", http.MethodGet, permission.ActionList, nil, http.StatusOK},
		{"anonymous create", http.MethodPost, permission.ActionCreate, nil, http.StatusUnauthorized},
		{"user create", http.MethodPost, permission.ActionCreate, plainUser, http.StatusForbidden},
		{"moderator create", http.MethodPost, permission.ActionCreate, moderator, http.StatusForbidden},
		{"admin create", http.MethodPost, permission.ActionCreate, admin, http.StatusOK},
		{"superuser delete", http.MethodDelete, permission.ActionDestroy, superuser, http.StatusOK},
		{"admin put", http.MethodPut, permission.ActionUpdate, admin, http.StatusMethodNotAllowed},
		{"anonymous put", http.MethodPut, permission.ActionUpdate, nil, http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := set.Check(permission.Request{Method: tc.method, Action: tc.action, Principal: tc.principal})
			assert.Equal(t, tc.want, statusOf(t, err))
		})
	}
}

/*
TestIsAdminOrDenied rejects reads from non-administrators too.
*/
func TestIsAdminOrDenied(t *testing.T) {
	set := permission.Set{permission.PutNotAllowed, permission.IsAdminOrDenied}
	list := func(p *sec.Principal) permission.Request {
		return permission.Request{Method: http.MethodGet, Action: permission.ActionList, Principal: p}
	}

	assert.Equal(t, http.StatusUnauthorized, statusOf(t, set.Check(list(nil))))
	assert.Equal(t, http.StatusForbidden, statusOf(t, set.Check(list(plainUser))))
	assert.Equal(t, http.StatusForbidden, statusOf(t, set.Check(list(staff))))
	assert.Equal(t, http.StatusOK, statusOf(t, set.Check(list(admin))))
	assert.Equal(t, http.StatusOK, statusOf(t, set.Check(list(superuser))))
}

/*
TestIsOwnerOrModeratorOrReadOnly checks the object level rules for reviews and comments.
*/
func TestIsOwnerOrModeratorOrReadOnly(t *testing.T) {
	set := permission.Set{permission.PutNotAllowed, permission.IsOwnerOrModeratorOrReadOnly}
	ownedByReader := authored(plainUser.UserID)
	ownedBySomeoneElse := authored(99)

	patch := func(p *sec.Principal) permission.Request {
		return permission.Request{Method: http.MethodPatch, Action: permission.ActionPartialUpdate, Principal: p}
	}

	t.Run("anyone reads", func(t *testing.T) {
		request := permission.Request{Method: http.MethodGet, Action: permission.ActionRetrieve}
		assert.NoError(t, set.Check(request))
		assert.NoError(t, set.CheckObject(request, ownedBySomeoneElse))
	})

	t.Run("anonymous create", func(t *testing.T) {
		request := permission.Request{Method: http.MethodPost, Action: permission.ActionCreate}
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, set.Check(request)))
	})

	t.Run("author edits own", func(t *testing.T) {
		assert.NoError(t, set.Check(patch(plainUser)))
		assert.NoError(t, set.CheckObject(patch(plainUser), ownedByReader))
	})

	t.Run("user edits foreign", func(t *testing.T) {
		assert.NoError(t, set.Check(patch(plainUser)))
		assert.Equal(t, http.StatusForbidden, statusOf(t, set.CheckObject(patch(plainUser), ownedBySomeoneElse)))
	})

	t.Run("privileged edit foreign", func(t *testing.T) {
		for _, p := range []*sec.Principal{moderator, admin, superuser, staff} {
			assert.NoError(t, set.CheckObject(patch(p), ownedBySomeoneElse), p.Username)
		}
	})

	t.Run("put on object", func(t *testing.T) {
		request := permission.Request{Method: http.MethodPut, Action: permission.ActionUpdate, Principal: plainUser}
		assert.Equal(t, http.StatusMethodNotAllowed, statusOf(t, set.CheckObject(request, ownedByReader)))
	})
}

/*
TestSet_Handle guards an http handler and reads the principal from the context.
*/
func TestSet_Handle(t *testing.T) {
	set := permission.Set{permission.PutNotAllowed, permission.IsAuthenticated}
	called := false
	handler := set.Handle(permission.ActionRetrieve, func(writer http.ResponseWriter, request *http.Request) {
		called = true
		writer.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler(recorder, httptest.NewRequest(http.MethodGet, "/v1/users/me", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Authentication credentials were not provided.")
		assert.False(t, called)
	})

	t.Run("authenticated", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), plainUser))

		recorder := httptest.NewRecorder()
		handler(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, called)
	})
}
