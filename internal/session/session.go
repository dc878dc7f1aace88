// Package session is the client-side inmate detail view: it owns the
// request and comment tables and runs every edit through the server.
package session

import (
	"context"
	"errors"

	"github.com/yourusername/casetracker/internal/client"
	"github.com/yourusername/casetracker/internal/confirm"
	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/table"
	"github.com/yourusername/casetracker/internal/warning"
)

// API is the part of *client.Client the view uses.
type API interface {
	Inmate(ctx context.Context, jurisdiction string, id int64) (client.Detail, error)
	Warnings(ctx context.Context, jurisdiction string, id int64, postmarked models.Date) ([]string, error)
	CreateRequest(ctx context.Context, jurisdiction string, id int64, r models.Request) (models.Request, error)
	UpdateRequest(ctx context.Context, jurisdiction string, id int64, r models.Request) (models.Request, error)
	DeleteRequest(ctx context.Context, jurisdiction string, id int64, index int) error
	CreateComment(ctx context.Context, jurisdiction string, id int64, c models.Comment) (models.Comment, error)
	UpdateComment(ctx context.Context, jurisdiction string, id int64, c models.Comment) (models.Comment, error)
	DeleteComment(ctx context.Context, jurisdiction string, id int64, index int) error
}

// InmateView is one opened inmate.
type InmateView struct {
	api  API
	flow *confirm.Flow

	Inmate models.InmateAggregate
	// DefaultPostmark prefills the add-request form.
	DefaultPostmark models.Date
	Requests        *table.Table[models.Request]
	Comments        *table.Table[models.Comment]
}

// Open loads an inmate. The tables take ownership of the fetched records.
func Open(ctx context.Context, api API, flow *confirm.Flow, jurisdiction string, id int64) (*InmateView, error) {
	d, err := api.Inmate(ctx, jurisdiction, id)
	if err != nil {
		return nil, err
	}
	v := &InmateView{
		api:             api,
		flow:            flow,
		Inmate:          d.Inmate,
		DefaultPostmark: d.DatePostmarked,
		Requests:        table.New(d.Inmate.Requests),
		Comments:        table.New(d.Inmate.Comments),
	}
	v.Inmate.Requests, v.Inmate.Comments = nil, nil
	return v, nil
}

func (v *InmateView) key() (string, int64) { return v.Inmate.Jurisdiction, v.Inmate.ID }

// Warnings runs the postmark rule for a candidate postmark date against
// the current request list, ignoring the request with key skip.
func (v *InmateView) Warnings(candidate models.Date, skip int) []string {
	rows := v.Requests.Rows()
	if _, editing := v.Requests.Get(skip); editing {
		rows, _ = table.Remove(rows, skip)
	}
	return warning.Check(warning.Input{
		DatePostmarked:  candidate,
		Requests:        rows,
		MinGapDays:      v.Inmate.MinPostmarkTimedelta,
		EntryAgeWarning: v.Inmate.EntryAgeWarning,
		ReleaseWarning:  v.Inmate.ReleaseWarning,
	})
}

// confirmRequest runs the warning dialog for r with msgs. An aborted
// dialog is reported on the editor of key.
func (v *InmateView) confirmRequest(ctx context.Context, r models.Request, msgs []string, key int) (models.Request, error) {
	r, err := v.flow.Resolve(ctx, r, msgs)
	if err != nil {
		fail(v.Requests, key, err)
	}
	return r, err
}

// AddRequest submits a new request and prepends the stored row. A Filled
// request is checked against the server's postmark warnings first.
func (v *InmateView) AddRequest(ctx context.Context, r models.Request) (models.Request, error) {
	j, id := v.key()
	var msgs []string
	if r.Action == models.ActionFilled {
		var err error
		if msgs, err = v.api.Warnings(ctx, j, id, r.DatePostmarked); err != nil {
			fail(v.Requests, table.NewRow, err)
			return models.Request{}, err
		}
	}
	r, err := v.confirmRequest(ctx, r, msgs, table.NewRow)
	if err != nil {
		return models.Request{}, err
	}
	created, err := v.api.CreateRequest(ctx, j, id, r)
	if err != nil {
		fail(v.Requests, table.NewRow, err)
		return models.Request{}, err
	}
	v.Requests.Added(created)
	return created, nil
}

// UpdateRequest saves an edited request in place. The dialog only runs when
// the edit makes the request Filled or moves the postmark of a Filled one.
func (v *InmateView) UpdateRequest(ctx context.Context, r models.Request) (models.Request, error) {
	var msgs []string
	if prev, ok := v.Requests.Get(r.Index); r.Action == models.ActionFilled &&
		(!ok || prev.Action != models.ActionFilled || !prev.DatePostmarked.Equal(r.DatePostmarked)) {
		msgs = v.Warnings(r.DatePostmarked, r.Index)
	}
	r, err := v.confirmRequest(ctx, r, msgs, r.Index)
	if err != nil {
		return models.Request{}, err
	}
	j, id := v.key()
	updated, err := v.api.UpdateRequest(ctx, j, id, r)
	if err != nil {
		fail(v.Requests, r.Index, err)
		return models.Request{}, err
	}
	v.Requests.Updated(updated)
	return updated, nil
}

func (v *InmateView) DeleteRequest(ctx context.Context, index int) error {
	j, id := v.key()
	if err := v.api.DeleteRequest(ctx, j, id, index); err != nil {
		fail(v.Requests, index, err)
		return err
	}
	v.Requests.Removed(index)
	return nil
}

func (v *InmateView) AddComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	j, id := v.key()
	created, err := v.api.CreateComment(ctx, j, id, c)
	if err != nil {
		fail(v.Comments, table.NewRow, err)
		return models.Comment{}, err
	}
	v.Comments.Added(created)
	return created, nil
}

func (v *InmateView) UpdateComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	j, id := v.key()
	updated, err := v.api.UpdateComment(ctx, j, id, c)
	if err != nil {
		fail(v.Comments, c.Index, err)
		return models.Comment{}, err
	}
	v.Comments.Updated(updated)
	return updated, nil
}

func (v *InmateView) DeleteComment(ctx context.Context, index int) error {
	j, id := v.key()
	if err := v.api.DeleteComment(ctx, j, id, index); err != nil {
		fail(v.Comments, index, err)
		return err
	}
	v.Comments.Removed(index)
	return nil
}

// fail attaches err to the editor of key: field errors per field, anything
// else under "error".
func fail[T table.Row](t *table.Table[T], key int, err error) {
	var fe client.FieldErrors
	if errors.As(err, &fe) {
		t.Fail(key, fe)
		return
	}
	t.Fail(key, map[string]string{"error": err.Error()})
}
