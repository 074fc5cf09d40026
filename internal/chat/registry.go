package chat

import (
	"context"
	"fmt"

	"github.com/ollamachat/ollamachat/internal/errors"
	"github.com/ollamachat/ollamachat/internal/models"
)

// Registry holds the models offered by the server and the current
// selection. The model set is fetched once per session.
type Registry struct {
	s *Session

	models    []models.Model
	selection string
	loaded    bool
}

// Load fetches the model list. Status is LoadingModels for the duration and
// returns to Idle whatever the outcome. On failure the model set stays empty
// and the error message is set.
func (r *Registry) Load(ctx context.Context) error {
	s := r.s

	s.mu.Lock()
	if r.loaded {
		s.mu.Unlock()
		return errors.ErrAlreadyLoaded
	}
	if err := s.beginLocked(StatusLoadingModels); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify()

	s.log.Debug("loading models")
	list, err := s.client.ListModels(ctx)

	s.mu.Lock()
	r.loaded = true
	s.status = StatusIdle
	var result error
	if err != nil {
		r.models = nil
		r.selection = ""
		s.fetchFailed = true
		s.errText = models.MsgModelFetchFailed
		result = errors.NewModelFetchError(err)
	} else {
		r.models = models.UniqueModels(list)
		r.selection = defaultSelection(r.models, s.preferred)
	}
	count, selection := len(r.models), r.selection
	s.mu.Unlock()
	s.notify()

	if result != nil {
		s.log.Warn("model fetch failed", "err", err)
	} else {
		s.log.Info("models loaded", "count", count, "selection", selection)
	}
	return result
}

// defaultSelection picks preferred when offered, else the first model.
func defaultSelection(list []models.Model, preferred string) string {
	if preferred != "" && models.ContainsModel(list, preferred) {
		return preferred
	}
	if len(list) == 0 {
		return ""
	}
	return list[0].Name
}

// Select makes name the current selection. Names outside the fetched set
// are rejected and leave the selection unchanged.
func (r *Registry) Select(name string) error {
	s := r.s

	s.mu.Lock()
	if !models.ContainsModel(r.models, name) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", errors.ErrUnknownModel, name)
	}
	changed := r.selection != name
	r.selection = name
	s.mu.Unlock()

	if changed {
		s.log.Info("model selected", "model", name)
		s.notify()
	}
	return nil
}

// Models returns a copy of the fetched model set
func (r *Registry) Models() []models.Model {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.Model(nil), r.models...)
}

// Selection returns the selected model name, or "" when none
func (r *Registry) Selection() string {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.selection
}

// Loaded reports whether Load has completed
func (r *Registry) Loaded() bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.loaded
}
