// Package source loads the raw catalog files the builder works from:
// the product feed (products.json) and the brand list (intl-brands.json).
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/go-faster/errors"

	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// Snapshot is one read of the catalog files.
type Snapshot struct {
	Products []catalog.RawProduct
	Brands   []catalog.Brand
	// Fingerprint identifies the file contents; equal fingerprints mean
	// nothing changed since the last load.
	Fingerprint string
	LoadedAt    time.Time
}

// FileSource reads the catalog from disk. The brands file is optional.
type FileSource struct {
	ProductsPath string
	BrandsPath   string
}

// NewFileSource creates a file source.
func NewFileSource(productsPath, brandsPath string) *FileSource {
	return &FileSource{ProductsPath: productsPath, BrandsPath: brandsPath}
}

// Load reads and decodes both files.
func (s *FileSource) Load() (*Snapshot, error) {
	h := sha256.New()

	productsData, err := os.ReadFile(s.ProductsPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read products %s", s.ProductsPath)
	}
	h.Write(productsData)

	products, err := DecodeProducts(productsData)
	if err != nil {
		return nil, errors.Wrapf(err, "decode products %s", s.ProductsPath)
	}

	var brands []catalog.Brand
	if s.BrandsPath != "" {
		brandsData, err := os.ReadFile(s.BrandsPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, errors.Wrapf(err, "read brands %s", s.BrandsPath)
		default:
			h.Write(brandsData)
			if brands, err = DecodeBrands(brandsData); err != nil {
				return nil, errors.Wrapf(err, "decode brands %s", s.BrandsPath)
			}
		}
	}

	return &Snapshot{
		Products:    products,
		Brands:      brands,
		Fingerprint: hex.EncodeToString(h.Sum(nil)),
		LoadedAt:    time.Now().UTC(),
	}, nil
}

// Changed reports whether the files differ from fingerprint. It reads the
// files but skips decoding.
func (s *FileSource) Changed(fingerprint string) (bool, error) {
	h := sha256.New()
	if err := hashFile(h, s.ProductsPath, false); err != nil {
		return false, err
	}
	if s.BrandsPath != "" {
		if err := hashFile(h, s.BrandsPath, true); err != nil {
			return false, err
		}
	}
	return hex.EncodeToString(h.Sum(nil)) != fingerprint, nil
}

func hashFile(w io.Writer, path string, optional bool) error {
	f, err := os.Open(path)
	if optional && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// DecodeProducts parses a product feed: a JSON array of products.
func DecodeProducts(data []byte) ([]catalog.RawProduct, error) {
	var products []catalog.RawProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, errors.Wrap(err, "product feed")
	}
	return products, nil
}

// DecodeBrands parses the brand list: a JSON array of brands.
func DecodeBrands(data []byte) ([]catalog.Brand, error) {
	var brands []catalog.Brand
	if err := json.Unmarshal(data, &brands); err != nil {
		return nil, errors.Wrap(err, "brand list")
	}
	return brands, nil
}
