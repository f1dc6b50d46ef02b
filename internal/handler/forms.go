package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"floradmin/internal/model"
	"floradmin/internal/resource"
)

// parseUpload reads the file under field. Files over model.MaxImageSize are
// returned without their content so validation rejects them by size.
func parseUpload(c echo.Context, field string) (*model.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if fh.Filename == "" && fh.Size == 0 {
		return nil, nil
	}

	up := &model.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
	}
	if fh.Size > model.MaxImageSize {
		return up, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()
	up.Data, err = io.ReadAll(io.LimitReader(f, model.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return up, nil
}

func trimmed(c echo.Context, name string) string {
	return strings.TrimSpace(c.FormValue(name))
}

func parseStoreForm(c echo.Context) (model.StoreInput, error) {
	in := model.StoreInput{
		Name:        trimmed(c, "nombre"),
		Description: trimmed(c, "descripcion"),
		URL:         trimmed(c, "url"),
	}
	logo, err := parseUpload(c, "logo")
	if err != nil {
		return in, err
	}
	in.Logo = logo
	return in, nil
}

// productForm keeps the raw numeric fields so the form can be shown again
// exactly as submitted.
type productForm struct {
	Input    model.ProductInput
	RawPrice string
	RawStock string
	// Invalid holds parse failures of the numeric fields.
	Invalid map[string]string
}

func parseProductForm(c echo.Context) (productForm, error) {
	form, err := c.FormParams()
	if err != nil {
		return productForm{}, fmt.Errorf("parse form: %w", err)
	}
	pf := productForm{
		Input: model.ProductInput{
			Name:        strings.TrimSpace(form.Get("nombre")),
			Description: strings.TrimSpace(form.Get("descripcion")),
			StoreID:     form.Get("floristeria"),
			CategoryIDs: form["categorias"],
		},
		RawPrice: strings.TrimSpace(form.Get("precio")),
		RawStock: strings.TrimSpace(form.Get("stock")),
		Invalid:  make(map[string]string),
	}

	if pf.RawPrice != "" {
		d, err := decimal.NewFromString(strings.Replace(pf.RawPrice, ",", ".", 1))
		if err != nil {
			pf.Invalid["precio"] = "Debe ser un número"
		} else {
			pf.Input.Price = &d
		}
	}
	if pf.RawStock != "" {
		n, err := strconv.Atoi(pf.RawStock)
		if err != nil {
			pf.Invalid["stock"] = "Debe ser un número entero"
		} else {
			pf.Input.Stock = &n
		}
	}

	image, err := parseUpload(c, "imagen")
	if err != nil {
		return pf, err
	}
	pf.Input.Image = image
	return pf, nil
}

// check merges numeric parse failures with the payload rules. It returns
// nil when the controller can be asked to submit.
func (pf productForm) check(v *resource.Validator) error {
	if len(pf.Invalid) == 0 {
		return nil
	}
	fields := make(map[string]string, len(pf.Invalid))
	if verr := v.Check(pf.Input); verr != nil {
		for k, msg := range verr.Fields {
			fields[k] = msg
		}
	}
	for k, msg := range pf.Invalid {
		fields[k] = msg
	}
	return &resource.ValidationError{Fields: fields}
}

func parseUserForm(c echo.Context) model.UserInput {
	in := model.UserInput{
		Username: trimmed(c, "username"),
		Password: c.FormValue("password"),
		Role:     model.Role(c.FormValue("role")),
		StoreID:  c.FormValue("floristeria"),
	}
	if in.Role == model.RoleAdmin {
		in.StoreID = ""
	}
	return in
}

func parseCategoryForm(c echo.Context) model.CategoryInput {
	return model.CategoryInput{
		Name:        trimmed(c, "nombre"),
		Description: trimmed(c, "descripcion"),
		Icon:        trimmed(c, "icono"),
		StoreID:     c.FormValue("floristeria"),
	}
}
