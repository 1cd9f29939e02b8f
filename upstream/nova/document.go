package nova

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gradee/skema/model"
)

// pdfPayload mirrors the converter's JSON rendering of the schedule PDF:
// one page of colored fills and positioned text runs, all measured in PDF
// units.
type pdfPayload struct {
	FormImage struct {
		Pages []struct {
			Fills []pdfFill `json:"Fills"`
			Texts []pdfText `json:"Texts"`
		} `json:"Pages"`
	} `json:"formImage"`
}

type pdfFill struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	W   float64 `json:"w"`
	H   float64 `json:"h"`
	Clr *int    `json:"clr"`
	OC  string  `json:"oc"`
}

type pdfText struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	R []struct {
		T string `json:"T"`
	} `json:"R"`
}

// DecodeDocument parses the converter's JSON payload into the geometric
// document model. Text runs come out of the converter percent-encoded and
// are decoded here.
func (c *Client) DecodeDocument(data []byte) (model.Document, error) {
	var payload pdfPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Document{}, fmt.Errorf("nova: decode document: %w", err)
	}
	if len(payload.FormImage.Pages) == 0 {
		return model.Document{}, fmt.Errorf("nova: decode document: no pages")
	}
	page := payload.FormImage.Pages[0]

	doc := model.Document{
		Shapes: make([]model.Shape, 0, len(page.Fills)),
		Texts:  make([]model.TextRun, 0, len(page.Texts)),
	}
	for i, f := range page.Fills {
		shape := model.Shape{
			X:     model.PdfUnits(f.X),
			Y:     model.PdfUnits(f.Y),
			W:     model.PdfUnits(f.W),
			H:     model.PdfUnits(f.H),
			Order: i,
		}
		if f.Clr != nil {
			shape.ColorIndex = *f.Clr
		} else {
			shape.ColorIndex = -1
			shape.OverrideColor = f.OC
		}
		doc.Shapes = append(doc.Shapes, shape)
	}
	for _, t := range page.Texts {
		if len(t.R) == 0 {
			continue
		}
		doc.Texts = append(doc.Texts, model.TextRun{
			X:    model.PdfUnits(t.X),
			Y:    model.PdfUnits(t.Y),
			W:    model.PdfUnits(t.W),
			Text: decodeRunText(t.R[0].T),
		})
	}
	return doc, nil
}

// decodeRunText undoes the converter's percent encoding. Malformed sequences
// are passed through untouched rather than dropping the run.
func decodeRunText(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
