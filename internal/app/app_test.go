package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alimikegami/point-of-sales/product-service/config"
	"github.com/alimikegami/point-of-sales/product-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-service/internal/event"
	"github.com/alimikegami/point-of-sales/product-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/product-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/product-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	testSecret  = "integration-secret"
	testBaseURL = "http://localhost:3000"
)

type memoryRepository struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]domain.Product
	order    []primitive.ObjectID
	calls    int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{products: map[primitive.ObjectID]domain.Product{}}
}

func (r *memoryRepository) AddProduct(ctx context.Context, data domain.Product) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	data.ID = primitive.NewObjectID()
	r.products[data.ID] = data
	r.order = append(r.order, data.ID)
	return data.ID, nil
}

func (r *memoryRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	products := []domain.Product{}
	for _, id := range r.order {
		if p, ok := r.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *memoryRepository) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, errs.ErrMalformedID
	}
	p, ok := r.products[oid]
	if !ok {
		return domain.Product{}, errs.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) UpdateProduct(ctx context.Context, id string, data domain.ProductUpdate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, errs.ErrMalformedID
	}
	p, ok := r.products[oid]
	if !ok {
		return 0, nil
	}
	if data.Name != nil {
		p.Name = *data.Name
	}
	if data.Price != nil {
		p.Price = *data.Price
	}
	if data.ProductImage != nil {
		p.ProductImage = *data.ProductImage
	}
	r.products[oid] = p
	return 1, nil
}

func (r *memoryRepository) DeleteProduct(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, errs.ErrMalformedID
	}
	if _, ok := r.products[oid]; !ok {
		return 0, nil
	}
	delete(r.products, oid)
	return 1, nil
}

type RouterTestSuite struct {
	suite.Suite
	config *config.Config
	repo   *memoryRepository
	server *echo.Echo
	token  string
}

func (s *RouterTestSuite) SetupTest() {
	s.config = &config.Config{
		BaseURL:   testBaseURL,
		JWTSecret: testSecret,
		UploadConfig: config.UploadConfig{
			Dir:          filepath.Join(s.T().TempDir(), "uploads"),
			FieldName:    "productImage",
			MaxSize:      "5MiB",
			MaxSizeBytes: 5 * 1024 * 1024,
		},
	}
	s.repo = newMemoryRepository()
	s.server = NewRouter(s.config, s.repo, event.NoopPublisher{})

	token, err := utils.CreateJWTToken(1, "tester", "ext-1", testSecret)
	s.Require().NoError(err)
	s.token = token
}

type formFile struct {
	contentType string
	filename    string
	content     []byte
}

func (s *RouterTestSuite) multipartBody(fields map[string]string, file *formFile) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		s.Require().NoError(writer.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="productImage"; filename="`+file.filename+`"`)
		h.Set("Content-Type", file.contentType)
		w, err := writer.CreatePart(h)
		s.Require().NoError(err)
		_, err = w.Write(file.content)
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	return body, writer.FormDataContentType()
}

func (s *RouterTestSuite) do(method, target string, body *bytes.Buffer, contentType string, authorized bool) (*httptest.ResponseRecorder, map[string]interface{}) {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if authorized {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &decoded))
	}

	return rec, decoded
}

func (s *RouterTestSuite) createWidget() map[string]interface{} {
	body, contentType := s.multipartBody(
		map[string]string{"name": "Widget", "price": "9.99"},
		&formFile{contentType: "image/png", filename: "widget.png", content: []byte("png-bytes")},
	)

	rec, resp := s.do(http.MethodPost, "/products", body, contentType, true)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	return resp["createdProduct"].(map[string]interface{})
}

func (s *RouterTestSuite) Test_CreateAndFetchWidget() {
	created := s.createWidget()
	id := created["_id"].(string)

	s.Equal("Widget", created["name"])
	s.Equal(9.99, created["price"])
	s.Equal(map[string]interface{}{
		"type":        "GET",
		"description": "TO_FETCH_THIS_PRODUCT",
		"url":         testBaseURL + "/products/" + id,
	}, created["request"])

	rec, list := s.do(http.MethodGet, "/products", nil, "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(1), list["count"])
	products := list["products"].([]interface{})
	s.Require().Len(products, 1)
	first := products[0].(map[string]interface{})
	s.Equal(id, first["_id"])
	s.Contains(first["productImage"], "widget.png")
	s.Equal("REQUEST_TO_FETCH_THIS_PRODUCT", first["request"].(map[string]interface{})["description"])

	rec, product := s.do(http.MethodGet, "/products/"+id, nil, "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Widget", product["name"])
	s.Equal(9.99, product["price"])
	s.Equal(map[string]interface{}{
		"type":        "GET",
		"description": "VIEW_ALL_PRODUCTS",
		"url":         testBaseURL + "/products",
	}, product["request"])

	image := filepath.Base(first["productImage"].(string))
	rec, _ = s.do(http.MethodGet, "/uploads/"+image, nil, "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("png-bytes", rec.Body.String())
}

func (s *RouterTestSuite) Test_ListEmpty() {
	rec, list := s.do(http.MethodGet, "/products/", nil, "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(0), list["count"])
	s.Equal([]interface{}{}, list["products"])
}

func (s *RouterTestSuite) Test_GetProduct_Errors() {
	rec, resp := s.do(http.MethodGet, "/products/"+primitive.NewObjectID().Hex(), nil, "", false)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(map[string]interface{}{"message": "No valid entry found"}, resp)

	rec, resp = s.do(http.MethodGet, "/products/not-an-id", nil, "", false)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(resp["error"], errs.ErrMalformedID.Error())
}

func (s *RouterTestSuite) Test_Create_Rejected() {
	testCases := []struct {
		Name           string
		Fields         map[string]string
		File           *formFile
		Authorized     bool
		ExpectedStatus int
	}{
		{
			Name:           "no token",
			Fields:         map[string]string{"name": "Widget", "price": "9.99"},
			File:           &formFile{contentType: "image/png", filename: "w.png", content: []byte("x")},
			ExpectedStatus: http.StatusUnauthorized,
		},
		{
			Name:           "missing image",
			Fields:         map[string]string{"name": "Widget", "price": "9.99"},
			Authorized:     true,
			ExpectedStatus: http.StatusInternalServerError,
		},
		{
			Name:           "image of a disallowed type",
			Fields:         map[string]string{"name": "Widget", "price": "9.99"},
			File:           &formFile{contentType: "image/gif", filename: "w.gif", content: []byte("x")},
			Authorized:     true,
			ExpectedStatus: http.StatusInternalServerError,
		},
		{
			Name:           "missing name",
			Fields:         map[string]string{"price": "9.99"},
			File:           &formFile{contentType: "image/jpeg", filename: "w.jpg", content: []byte("x")},
			Authorized:     true,
			ExpectedStatus: http.StatusInternalServerError,
		},
		{
			Name:           "price not a number",
			Fields:         map[string]string{"name": "Widget", "price": "cheap"},
			File:           &formFile{contentType: "image/jpeg", filename: "w.jpg", content: []byte("x")},
			Authorized:     true,
			ExpectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			body, contentType := s.multipartBody(tc.Fields, tc.File)
			rec, resp := s.do(http.MethodPost, "/products", body, contentType, tc.Authorized)
			s.Equal(tc.ExpectedStatus, rec.Code)

			if tc.ExpectedStatus == http.StatusUnauthorized {
				s.Equal(map[string]interface{}{"message": "Auth failed"}, resp)
			} else {
				s.Contains(resp["error"], errs.ErrValidation.Error())
			}
		})
	}

	s.Empty(s.repo.products)
}

func (s *RouterTestSuite) Test_Unauthorized_WritesNeverReachStore() {
	id := primitive.NewObjectID().Hex()

	for _, method := range []string{http.MethodPatch, http.MethodDelete} {
		rec, resp := s.do(method, "/products/"+id, bytes.NewBufferString(`[]`), echo.MIMEApplicationJSON, false)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal(map[string]interface{}{"message": "Auth failed"}, resp)
	}

	s.Equal(0, s.repo.calls)
}

func (s *RouterTestSuite) Test_UpdateProduct() {
	id := s.createWidget()["_id"].(string)

	patch := `[{"propName":"price","value":"12.50"},{"propName":"name","value":"Gadget"}]`
	rec, resp := s.do(http.MethodPatch, "/products/"+id, bytes.NewBufferString(patch), echo.MIMEApplicationJSON, true)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Product has been updated", resp["message"])
	s.Equal(map[string]interface{}{
		"type":        "GET",
		"description": "fetch-UPDATED-PRODUCT",
		"url":         testBaseURL + "/products/" + id,
	}, resp["request"])

	_, product := s.do(http.MethodGet, "/products/"+id, nil, "", false)
	s.Equal("Gadget", product["name"])
	s.Equal(12.5, product["price"])
}

func (s *RouterTestSuite) Test_UpdateProduct_PriceOnly() {
	id := s.createWidget()["_id"].(string)

	rec, _ := s.do(http.MethodPatch, "/products/"+id, bytes.NewBufferString(`[{"propName":"price","value":42}]`), echo.MIMEApplicationJSON, true)
	s.Equal(http.StatusOK, rec.Code)

	_, product := s.do(http.MethodGet, "/products/"+id, nil, "", false)
	s.Equal("Widget", product["name"])
	s.Equal(float64(42), product["price"])
	s.Contains(product["productImage"], "widget.png")
}

func (s *RouterTestSuite) Test_UpdateProduct_Rejected() {
	id := s.createWidget()["_id"].(string)

	testCases := []struct {
		Name string
		Body string
	}{
		{Name: "unknown field", Body: `[{"propName":"_id","value":"x"}]`},
		{Name: "price not numeric", Body: `[{"propName":"price","value":"cheap"}]`},
		{Name: "malformed body", Body: `{"propName":`},
		{Name: "object instead of array", Body: `{"propName":"price","value":1}`},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			rec, resp := s.do(http.MethodPatch, "/products/"+id, bytes.NewBufferString(tc.Body), echo.MIMEApplicationJSON, true)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.NotEmpty(resp["error"])
		})
	}

	_, product := s.do(http.MethodGet, "/products/"+id, nil, "", false)
	s.Equal("Widget", product["name"])
	s.Equal(9.99, product["price"])
}

func (s *RouterTestSuite) Test_UpdateProduct_MissingIDStillSucceeds() {
	rec, resp := s.do(http.MethodPatch, "/products/"+primitive.NewObjectID().Hex(), bytes.NewBufferString(`[{"propName":"price","value":1}]`), echo.MIMEApplicationJSON, true)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Product has been updated", resp["message"])
}

func (s *RouterTestSuite) Test_DeleteProduct() {
	id := s.createWidget()["_id"].(string)

	rec, resp := s.do(http.MethodDelete, "/products/"+id, nil, "", true)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Product Deleted", resp["message"])
	s.Equal(map[string]interface{}{
		"type":        "POST",
		"description": "ADD_NEW PRODUCT",
		"url":         testBaseURL + "/products",
		"body":        map[string]interface{}{"name": "String", "price": "Number"},
	}, resp["request"])

	rec, _ = s.do(http.MethodGet, "/products/"+id, nil, "", false)
	s.Equal(http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/products/"+id, nil, "", true)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/products/bogus", nil, "", true)
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *RouterTestSuite) Test_DeleteProduct_OnlyTarget() {
	keep := s.createWidget()["_id"].(string)
	drop := s.createWidget()["_id"].(string)

	rec, _ := s.do(http.MethodDelete, "/products/"+drop, nil, "", true)
	s.Equal(http.StatusOK, rec.Code)

	_, list := s.do(http.MethodGet, "/products", nil, "", false)
	s.Equal(float64(1), list["count"])
	products := list["products"].([]interface{})
	s.Require().Len(products, 1)
	s.Equal(keep, products[0].(map[string]interface{})["_id"])

	rec, _ = s.do(http.MethodGet, "/products/"+keep, nil, "", false)
	s.Equal(http.StatusOK, rec.Code)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type countingReader struct {
	r    io.Reader
	read int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	return n, err
}

func (s *RouterTestSuite) Test_Create_OversizeBodyIsCut() {
	const fileSize = 64 << 20
	const boundary = "oversize"

	head := "--" + boundary + "\r\n" +
		`Content-Disposition: form-data; name="productImage"; filename="huge.png"` + "\r\n" +
		"Content-Type: image/png\r\n\r\n"
	tail := "\r\n--" + boundary + "--\r\n"
	limit := middleware.UploadBodyLimit(s.config.UploadConfig)

	testCases := []struct {
		Name          string
		ContentLength bool
	}{
		{Name: "declared length", ContentLength: true},
		{Name: "chunked", ContentLength: false},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			tmp := s.T().TempDir()
			s.T().Setenv("TMPDIR", tmp)

			body := &countingReader{r: io.MultiReader(
				strings.NewReader(head),
				io.LimitReader(zeroReader{}, fileSize),
				strings.NewReader(tail),
			)}
			req := httptest.NewRequest(http.MethodPost, "/products", body)
			req.Header.Set(echo.HeaderContentType, "multipart/form-data; boundary="+boundary)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
			req.ContentLength = -1
			if tc.ContentLength {
				req.ContentLength = int64(len(head) + fileSize + len(tail))
			}

			rec := httptest.NewRecorder()
			s.server.ServeHTTP(rec, req)

			s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
			s.LessOrEqual(body.read, limit+64<<10)

			leftovers, err := filepath.Glob(filepath.Join(tmp, "multipart-*"))
			s.Require().NoError(err)
			s.Empty(leftovers)
		})
	}

	_, err := os.Stat(s.config.UploadConfig.Dir)
	s.True(os.IsNotExist(err))
	s.Empty(s.repo.products)
}

func (s *RouterTestSuite) Test_Ping() {
	rec, resp := s.do(http.MethodGet, "/ping", nil, "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("success", resp["status"])
	s.Equal("Hello, World!", resp["message"])
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
