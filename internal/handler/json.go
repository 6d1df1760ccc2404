package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/dsoler/futurshop/internal/domain/catalog"
)

// decodeCheckoutRequest extracts the product snapshot from a
// {"product": {...}} body. A missing or null product yields a nil pointer,
// which the checkout service rejects.
func decodeCheckoutRequest(r *http.Request) (*catalog.Product, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	var product *catalog.Product
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "product" {
			return d.Skip()
		}
		if d.Next() == jx.Null {
			return d.Null()
		}
		var p catalog.Product
		if err := p.Decode(d); err != nil {
			return err
		}
		product = &p
		return nil
	}); err != nil {
		return nil, err
	}
	return product, nil
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeOK(w http.ResponseWriter) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("ok")
	e.Bool(true)
	e.ObjEnd()
	writeRaw(w, http.StatusOK, e.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("error")
	e.Str(msg)
	e.ObjEnd()
	writeRaw(w, status, e.Bytes())
}
