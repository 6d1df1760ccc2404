package catalog

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Encode writes the product as a JSON object.
func (p Product) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("price")
	e.Raw([]byte(p.Price.String()))
	e.FieldStart("images")
	e.ArrStart()
	for _, img := range p.Images {
		e.Str(img)
	}
	e.ArrEnd()
	e.ObjEnd()
}

// Decode reads a product from a JSON object. Unknown keys are skipped so
// catalog files written by newer versions stay readable.
func (p *Product) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "price":
			var raw jx.Raw
			raw, err = d.Raw()
			if err != nil {
				return errors.Wrap(err, "price")
			}
			err = p.Price.UnmarshalJSON(raw)
		case "images":
			return d.Arr(func(d *jx.Decoder) error {
				img, err := d.Str()
				if err != nil {
					return err
				}
				p.Images = append(p.Images, img)
				return nil
			})
		default:
			return d.Skip()
		}
		return errors.Wrap(err, key)
	})
}

// EncodeProducts writes a product list as a JSON array.
func EncodeProducts(e *jx.Encoder, products []Product) {
	e.ArrStart()
	for _, p := range products {
		p.Encode(e)
	}
	e.ArrEnd()
}

// DecodeProducts reads a JSON array of products.
func DecodeProducts(d *jx.Decoder) ([]Product, error) {
	var products []Product
	if err := d.Arr(func(d *jx.Decoder) error {
		var p Product
		if err := p.Decode(d); err != nil {
			return err
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, err
	}
	return products, nil
}
