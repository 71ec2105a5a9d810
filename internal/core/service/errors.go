package service

import (
	"errors"

	"github.com/savannaherds/site-api/internal/core/domain"
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrCommentNotFound) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrSiteContentNotFound)
}
