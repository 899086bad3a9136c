package parsers

import (
	"io"

	"github.com/username/salesfolio/src/models"
)

type Parser interface {
	Parse(file io.Reader) ([]models.Transaction, error)
}
