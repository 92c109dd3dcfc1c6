package exceltable

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet marks a sheet with no cell data left after removing
// empty rows and columns. The multi sheet readers skip such sheets,
// the first sheet readers return the error.
var ErrEmptySheet = errors.New("empty sheet")

// ErrSheetNotExist is the excelize error for a missing sheet name.
type ErrSheetNotExist = excelize.ErrSheetNotExist
