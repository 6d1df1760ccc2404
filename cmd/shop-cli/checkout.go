package main

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/dsoler/futurshop/internal/domain/catalog"
)

// startCheckout posts the product snapshot and returns the processor's
// redirect URL.
func (c *cli) startCheckout(ctx context.Context, p catalog.Product) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("product")
	p.Encode(&e)
	e.ObjEnd()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/checkout", bytes.NewReader(e.Bytes()))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "checkout request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}

	var redirectURL, serverErr string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "url":
			redirectURL, err = d.Str()
		case "error":
			serverErr, err = d.Str()
		default:
			return d.Skip()
		}
		return err
	}); err != nil {
		return "", errors.Wrap(err, "decode response")
	}

	if resp.StatusCode != http.StatusOK || redirectURL == "" {
		if serverErr == "" {
			serverErr = "checkout failed"
		}
		return "", errors.New(serverErr)
	}
	return redirectURL, nil
}
