package usecase

import "context"

type LoadOutput struct {
	HasSecret bool
}

// Load reports whether the current session already has a secret.
func (s *Usecase) Load(ctx context.Context) (*LoadOutput, error) {
	ctx, span := s.startSpan(ctx, "Load")
	defer span.End()

	w, err := s.loadWidget(ctx)
	if err != nil {
		return nil, err
	}

	return &LoadOutput{HasSecret: w.HasSecret()}, nil
}
