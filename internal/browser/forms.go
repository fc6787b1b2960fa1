package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/raysh454/sbrowser/internal/document"
	"github.com/raysh454/sbrowser/internal/logging"
	"github.com/raysh454/sbrowser/internal/urlutil"
)

const DefaultEnctype = "application/x-www-form-urlencoded"

// imagesField is never sent when a form is submitted.
const imagesField = "images"

// FormImage is an <img> found inside a form, fetched when the form was
// extracted. Data is the base64-encoded response body.
type FormImage struct {
	Src  string `json:"src"`
	Data string `json:"data"`
}

// Form describes a scraped <form> ready to be resubmitted.
type Form struct {
	Action  string          `json:"action"`
	Method  string          `json:"method"`
	Enctype string          `json:"enctype"`
	Fields  *urlutil.Values `json:"fields"`
	Images  []FormImage     `json:"images"`
}

// Forms builds a Form for every <form> of the current page, keyed
// "form_1", "form_2", ... in document order. Images referenced by the forms
// are fetched before it returns.
func (c *Client) Forms(ctx context.Context) (*orderedmap.OrderedMap[string, *Form], error) {
	forms := orderedmap.New[string, *Form]()
	elements := c.FindAll("form")
	if len(elements) == 0 {
		return forms, nil
	}

	logger := c.logger.With(logging.Field{Key: "request_id", Value: uuid.NewString()})
	for i, el := range elements {
		f, err := c.buildForm(ctx, el, logger)
		if err != nil {
			return nil, fmt.Errorf("form_%d: %w", i+1, err)
		}
		forms.Set(fmt.Sprintf("form_%d", i+1), f)
	}
	logger.Debug("extracted forms",
		logging.Field{Key: "url", Value: c.last.URL},
		logging.Field{Key: "count", Value: forms.Len()})
	return forms, nil
}

// Form builds the Form for the first element matching selector. It returns
// nil without error when nothing matches.
func (c *Client) Form(ctx context.Context, selector string) (*Form, error) {
	el := c.FindFirst(selector)
	if el == nil {
		return nil, nil
	}
	logger := c.logger.With(logging.Field{Key: "request_id", Value: uuid.NewString()})
	return c.buildForm(ctx, el, logger)
}

// SubmitForm sends the form's fields to its action with its method.
func (c *Client) SubmitForm(ctx context.Context, f *Form) ([]byte, error) {
	if f == nil {
		return nil, ErrNilForm
	}
	fields := f.Fields.Clone()
	fields.Delete(imagesField)
	return c.Request(ctx, f.Method, f.Action, fields)
}

func (c *Client) buildForm(ctx context.Context, el *document.Element, logger logging.Logger) (*Form, error) {
	base, baseErr := urlutil.BaseOf(c.last.URL)
	resolve := func(ref string) string {
		if baseErr != nil {
			return ref
		}
		return urlutil.ResolveRelative(ref, base)
	}

	f := &Form{
		Action:  c.last.URL,
		Method:  http.MethodGet,
		Enctype: DefaultEnctype,
		Fields:  urlutil.NewValues(),
		Images:  []FormImage{},
	}
	if action, ok := el.Attr("action"); ok && strings.TrimSpace(action) != "" {
		f.Action = resolve(strings.TrimSpace(action))
	}
	if method, ok := el.Attr("method"); ok && strings.TrimSpace(method) != "" {
		f.Method = strings.ToUpper(strings.TrimSpace(method))
	}
	if enctype, ok := el.Attr("enctype"); ok && strings.TrimSpace(enctype) != "" {
		f.Enctype = strings.TrimSpace(enctype)
	}

	for _, input := range el.Find("input") {
		name, _ := input.Attr("name")
		if name == "" {
			continue
		}
		value, _ := input.Attr("value")
		f.Fields.Set(name, value)
	}

	for _, img := range el.Find("img") {
		src, _ := img.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		src = resolve(src)
		data, err := c.request(ctx, http.MethodGet, src, nil, true, logger)
		if err != nil {
			return nil, fmt.Errorf("fetch image %s: %w", src, err)
		}
		f.Images = append(f.Images, FormImage{
			Src:  src,
			Data: base64.StdEncoding.EncodeToString(data),
		})
	}
	return f, nil
}
