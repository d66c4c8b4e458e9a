package service

import (
	"errors"

	"github.com/nikolayk812/cartkeeper/internal/domain"
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
