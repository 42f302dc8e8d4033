package runner

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	v1 "github.com/infracollect/dataprobe/apis/v1"
	"github.com/samber/lo"
)

var (
	defaultValidator = validator.New(validator.WithRequiredStructEnabled())
)

// ParseInspectJob parses a YAML or JSON job file and validates it against the
// struct tags of v1.InspectJob.
func ParseInspectJob(data []byte) (v1.InspectJob, error) {
	var job v1.InspectJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		return v1.InspectJob{}, fmt.Errorf("failed to unmarshal job data: %w", err)
	}

	if err := defaultValidator.Struct(job); err != nil {
		return v1.InspectJob{}, fmt.Errorf("failed to validate job: %w", err)
	}

	if err := validateOneOf(job); err != nil {
		return v1.InspectJob{}, fmt.Errorf("failed to validate job: %w", err)
	}

	return job, nil
}

func validateOneOf(job v1.InspectJob) error {
	source := job.Spec.Source
	if lo.Count([]bool{source.Path != nil, source.S3 != nil, source.HTTP != nil}, true) != 1 {
		return fmt.Errorf("source must set exactly one of path, s3 or http")
	}

	if output := job.Spec.Output; output != nil && output.Sink != nil {
		sink := output.Sink
		if lo.Count([]bool{sink.Stdout != nil, sink.Filesystem != nil, sink.S3 != nil}, true) > 1 {
			return fmt.Errorf("output sink must set at most one of stdout, filesystem or s3")
		}
	}

	ids := lo.Map(job.Spec.Inspections, func(i v1.Inspection, _ int) string { return i.ID })
	if dup := lo.FindDuplicates(ids); len(dup) > 0 {
		return fmt.Errorf("duplicate inspection ids: %v", dup)
	}

	return nil
}
