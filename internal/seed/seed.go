// Package seed loads inmate fixtures from YAML into storage.
package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/casetracker/internal/models"
)

type File struct {
	Inmates []Inmate `yaml:"inmates"`
}

type Inmate struct {
	Jurisdiction    string      `yaml:"jurisdiction"`
	ID              int64       `yaml:"id"`
	FirstName       string      `yaml:"first_name"`
	LastName        string      `yaml:"last_name"`
	Sex             string      `yaml:"sex"`
	Race            string      `yaml:"race"`
	Release         string      `yaml:"release"`
	URL             string      `yaml:"url"`
	DatetimeFetched time.Time   `yaml:"datetime_fetched"`
	Unit            models.Unit `yaml:"unit"`
	Requests        []Request   `yaml:"requests"`
	Comments        []Comment   `yaml:"comments"`
}

type Request struct {
	DatePostmarked string `yaml:"date_postmarked"`
	Action         string `yaml:"action"`
}

type Comment struct {
	Body     string    `yaml:"body"`
	Author   string    `yaml:"author"`
	Datetime time.Time `yaml:"datetime"`
}

// Store is what Apply writes to.
type Store interface {
	UpsertInmate(ctx context.Context, in models.Inmate) error
	CreateRequest(ctx context.Context, jurisdiction string, id int64, r models.Request) (models.Request, error)
	CreateComment(ctx context.Context, jurisdiction string, id int64, c models.Comment) (models.Comment, error)
}

// Load decodes a fixture file. Unknown keys are rejected.
func Load(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

// Apply writes every inmate with its requests and comments. Missing fetch
// and comment timestamps default to now.
func Apply(ctx context.Context, st Store, f File, now time.Time) error {
	for _, in := range f.Inmates {
		if in.Jurisdiction == "" || in.ID <= 0 {
			return fmt.Errorf("seed inmate %q %q: jurisdiction and id are required", in.FirstName, in.LastName)
		}
		fetched := in.DatetimeFetched
		if fetched.IsZero() {
			fetched = now
		}
		err := st.UpsertInmate(ctx, models.Inmate{
			Jurisdiction:    in.Jurisdiction,
			ID:              in.ID,
			FirstName:       in.FirstName,
			LastName:        in.LastName,
			Sex:             in.Sex,
			Race:            in.Race,
			Release:         in.Release,
			URL:             in.URL,
			DatetimeFetched: fetched,
			Unit:            in.Unit,
		})
		if err != nil {
			return err
		}

		for _, r := range in.Requests {
			date, err := models.ParseDate(r.DatePostmarked)
			if err != nil {
				return fmt.Errorf("seed %s/%d request: %w", in.Jurisdiction, in.ID, err)
			}
			action := models.Action(r.Action)
			if !action.Valid() {
				return fmt.Errorf("seed %s/%d request: invalid action %q", in.Jurisdiction, in.ID, r.Action)
			}
			if _, err := st.CreateRequest(ctx, in.Jurisdiction, in.ID, models.Request{DatePostmarked: date, Action: action}); err != nil {
				return err
			}
		}

		for _, c := range in.Comments {
			written := c.Datetime
			if written.IsZero() {
				written = now
			}
			if _, err := st.CreateComment(ctx, in.Jurisdiction, in.ID, models.Comment{Body: c.Body, Author: c.Author, Datetime: written}); err != nil {
				return err
			}
		}
	}
	return nil
}
