package users

import "context"

// EmailOf exposes just the email of a user. Other modules (reports)
// use this instead of pulling whole profiles; it also keeps import
// cycles out of the picture.
func (s *Service) EmailOf(ctx context.Context, userID string) (string, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}

// DisplayNameOf is the same idea for display names (card captions).
func (s *Service) DisplayNameOf(ctx context.Context, userID string) (string, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.DisplayName, nil
}
