package file

import (
	"context"
	"encoding/json"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

const (
	kindApplications = "applications"
	kindPositions    = "positions"
)

// ApplicationRepository stores candidate applications as JSON files.
type ApplicationRepository struct {
	store *store
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	application := &models.Application{}

	found, err := r.store.read(kindApplications, id, application)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, persistence.ErrApplicationNotFound
	}

	return application, nil
}

func (r *ApplicationRepository) Save(ctx context.Context, application *models.Application) error {
	return r.store.write(kindApplications, application.ID, application)
}

func (r *ApplicationRepository) CountInFlight(ctx context.Context, stageIDs []string) (int, error) {
	if len(stageIDs) == 0 {
		return 0, nil
	}

	stages := make(map[string]struct{}, len(stageIDs))
	for _, id := range stageIDs {
		stages[id] = struct{}{}
	}

	count := 0

	err := r.store.list(kindApplications, func(data []byte) error {
		application := &models.Application{}
		if err := json.Unmarshal(data, application); err != nil {
			return err
		}

		if _, ok := stages[application.StageID]; ok && !application.IsTerminal() {
			count++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// JobPositionRepository stores job positions as JSON files.
type JobPositionRepository struct {
	store *store
}

func (r *JobPositionRepository) GetByID(ctx context.Context, id string) (*models.JobPosition, error) {
	position := &models.JobPosition{}

	found, err := r.store.read(kindPositions, id, position)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, persistence.ErrPositionNotFound
	}

	return position, nil
}

func (r *JobPositionRepository) Save(ctx context.Context, position *models.JobPosition) error {
	return r.store.write(kindPositions, position.ID, position)
}
