package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"alumni/models"
)

type JobService struct {
	c *Client
}

func (s *JobService) GetJobs(ctx context.Context) ([]models.Job, error) {
	var raw json.RawMessage
	if err := s.c.Do(ctx, http.MethodGet, "/jobs", nil, nil, &raw); err != nil {
		return nil, err
	}
	jobs, err := decodeList[models.Job](raw, "jobs")
	if err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) CreateJob(ctx context.Context, input models.JobInput) (*models.Job, error) {
	var job models.Job
	if err := s.c.Do(ctx, http.MethodPost, "/jobs", input, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) GetJobDetails(ctx context.Context, id string) (*models.Job, error) {
	if id == "" {
		return nil, fmt.Errorf("job details: %w", ErrMissingID)
	}
	var job models.Job
	if err := s.c.Do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
