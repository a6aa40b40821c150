package listing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoftwareEngineering-E-Complish/service-manager/internal/testutil"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/geocode"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/security/auth"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

type failureRecorder struct {
	stages []string
}

func (r *failureRecorder) RecordPipelineFailure(pipeline, stage string) {
	r.stages = append(r.stages, pipeline+"/"+stage)
}

type fixture struct {
	user      *testutil.Backend
	inventory *testutil.Backend
	image     *testutil.Backend
	geo       *testutil.Backend
	recorder  *failureRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		user:      testutil.NewBackend(),
		inventory: testutil.NewBackend(),
		image:     testutil.NewBackend(),
		geo:       testutil.NewBackend(),
		recorder:  &failureRecorder{},
	}
	for _, b := range []*testutil.Backend{f.user, f.inventory, f.image, f.geo} {
		t.Cleanup(b.Close)
	}

	f.user.Handle("GET /verifyAccessToken", testutil.Response{Body: "true"})
	f.user.Handle("GET /userId", testutil.Response{Body: "user-42"})
	f.geo.Handle("GET /v1/search", testutil.Response{Body: []map[string]string{
		{"lat": "47.3769", "lon": "8.5417"},
	}})
	f.inventory.Handle("POST /properties", testutil.Response{
		StatusCode: http.StatusCreated,
		Body:       map[string]any{"propertyId": 7, "title": "Loft"},
	})
	f.image.Handle("POST /upload", testutil.Response{Body: map[string]bool{"ok": true}})
	return f
}

func (f *fixture) pipeline() *Pipeline {
	client := upstream.NewClient(upstream.Options{})
	return New(
		client,
		auth.NewGate(client, f.user.URL()),
		geocode.New(client, f.geo.URL()+"/v1/search", "test-key", nil),
		Config{InventoryURL: f.inventory.URL(), ImageURL: f.image.URL()},
		f.recorder,
	)
}

type image struct {
	name string
	data string
}

func submissionRequest(t *testing.T, content string, images ...image) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if content != "" {
		require.NoError(t, w.WriteField(FieldContent, content))
	}
	for _, img := range images {
		part, err := w.CreateFormFile(FieldImages, img.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, img.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/createProperty", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())
	r.Header.Set("Authorization", "Bearer tok")
	return r
}

func gatewayError(t *testing.T, err error) *types.GatewayError {
	t.Helper()
	var gwErr *types.GatewayError
	require.True(t, errors.As(err, &gwErr), "expected *types.GatewayError, got %T", err)
	return gwErr
}

const loftContent = `{"title":"Loft","address":"Bahnhofstrasse 1","location":"Zurich","images":["stale.jpg"]}`

func TestPipeline_Run(t *testing.T) {
	f := newFixture(t)

	r := submissionRequest(t, loftContent,
		image{"a.jpg", "AAA"}, image{"b.jpg", "BBB"}, image{"c.jpg", "CCC"})
	result, err := f.pipeline().Run(context.Background(), r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"propertyId":7,"title":"Loft"}`, string(result))

	geoReqs := f.geo.RequestsTo("/v1/search")
	require.Len(t, geoReqs, 1)
	assert.Equal(t, "Bahnhofstrasse 1, Zurich", geoReqs[0].Query.Get("q"))

	createReqs := f.inventory.RequestsTo("/properties")
	require.Len(t, createReqs, 1)
	var draft map[string]any
	require.NoError(t, createReqs[0].JSON(&draft))
	assert.Equal(t, "user-42", draft["ownerId"])
	assert.InDelta(t, 8.5417, draft["longitude"], 1e-9)
	assert.InDelta(t, 47.3769, draft["latitude"], 1e-9)
	assert.NotContains(t, draft, "images")
	assert.Equal(t, "Loft", draft["title"])

	uploads := f.image.RequestsTo("/upload")
	require.Len(t, uploads, 3)
	for i, want := range []struct{ primary, name, data string }{
		{"true", "a.jpg", "AAA"},
		{"false", "b.jpg", "BBB"},
		{"false", "c.jpg", "CCC"},
	} {
		assert.Equal(t, "7", uploads[i].Query.Get("propertyId"))
		assert.Equal(t, want.primary, uploads[i].Query.Get("primary"))
		assert.Equal(t, "Bearer tok", uploads[i].Header.Get("Authorization"))

		form, err := uploads[i].Multipart()
		require.NoError(t, err)
		require.Len(t, form.File[UploadField], 1)
		fh := form.File[UploadField][0]
		assert.Equal(t, want.name, fh.Filename)
		file, err := fh.Open()
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		file.Close()
		assert.Equal(t, want.data, string(data))
	}
	assert.Empty(t, f.recorder.stages)
}

func TestPipeline_Run_NoImages(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline().Run(context.Background(), submissionRequest(t, loftContent))
	require.NoError(t, err)
	assert.Equal(t, 0, f.image.CallCount("/upload"))
}

func TestPipeline_Run_UploadStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t)

	calls := 0
	f.image.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r := submissionRequest(t, loftContent,
		image{"a.jpg", "AAA"}, image{"b.jpg", "BBB"}, image{"c.jpg", "CCC"})
	_, err := f.pipeline().Run(context.Background(), r)

	gwErr := gatewayError(t, err)
	assert.Equal(t, http.StatusInternalServerError, gwErr.Status)
	assert.Equal(t, "error uploading images for property 7", gwErr.Detail)
	assert.Equal(t, 2, f.image.CallCount("/upload"))
	assert.Equal(t, 1, f.inventory.CallCount("/properties"))
	assert.Equal(t, []string{"listing/upload"}, f.recorder.stages)
}

func TestPipeline_Run_Failures(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(f *fixture)
		content    string
		noAuth     bool
		wantStatus int
		wantDetail string
		wantStage  string
	}{
		{
			name:       "missing token",
			noAuth:     true,
			wantStatus: http.StatusUnauthorized,
			wantDetail: auth.MessageMissingToken,
			wantStage:  "listing/owner",
		},
		{
			name: "token rejected",
			setup: func(f *fixture) {
				f.user.Handle("GET /verifyAccessToken", testutil.Response{Body: "false"})
			},
			wantStatus: http.StatusUnauthorized,
			wantDetail: auth.MessageInvalidToken,
			wantStage:  "listing/owner",
		},
		{
			name: "no user id",
			setup: func(f *fixture) {
				f.user.Handle("GET /userId", testutil.Response{StatusCode: http.StatusNotFound})
			},
			wantStatus: http.StatusNotFound,
			wantDetail: MessageNoUserID,
			wantStage:  "listing/owner",
		},
		{
			name:       "content not an object",
			content:    `["not","an","object"]`,
			wantStatus: http.StatusBadRequest,
			wantDetail: MessageInvalidForm,
			wantStage:  "listing/parse",
		},
		{
			name: "no coordinates",
			setup: func(f *fixture) {
				f.geo.Handle("GET /v1/search", testutil.Response{Body: []any{}})
			},
			wantStatus: http.StatusNotFound,
			wantDetail: MessageNoCoordinates,
			wantStage:  "listing/geocode",
		},
		{
			name: "geolocation unavailable",
			setup: func(f *fixture) {
				f.geo.Handle("GET /v1/search", testutil.Response{
					StatusCode: http.StatusServiceUnavailable,
					Body:       map[string]string{"error": "down"},
				})
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: MessageGeocodeFailed,
			wantStage:  "listing/geocode",
		},
		{
			name: "geolocation answers garbage",
			setup: func(f *fixture) {
				f.geo.Handle("GET /v1/search", testutil.Response{Body: map[string]string{"error": "Invalid key"}})
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: MessageGeocodeFailed,
			wantStage:  "listing/geocode",
		},
		{
			name: "inventory rejects",
			setup: func(f *fixture) {
				f.inventory.Handle("POST /properties", testutil.Response{StatusCode: http.StatusUnprocessableEntity})
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: MessageCreateFailed,
			wantStage:  "listing/create",
		},
		{
			name: "created property without id",
			setup: func(f *fixture) {
				f.inventory.Handle("POST /properties", testutil.Response{Body: map[string]string{"title": "Loft"}})
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: MessageCreateFailed,
			wantStage:  "listing/create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			content := tt.content
			if content == "" {
				content = loftContent
			}
			r := submissionRequest(t, content, image{"a.jpg", "AAA"})
			if tt.noAuth {
				r.Header.Del("Authorization")
			}

			_, err := f.pipeline().Run(context.Background(), r)

			gwErr := gatewayError(t, err)
			assert.Equal(t, tt.wantStatus, gwErr.Status)
			assert.Equal(t, tt.wantDetail, gwErr.Detail)
			assert.Equal(t, []string{tt.wantStage}, f.recorder.stages)
			assert.Equal(t, 0, f.image.CallCount("/upload"))
		})
	}
}

func TestPipeline_Run_BodyTooLarge(t *testing.T) {
	f := newFixture(t)

	r := submissionRequest(t, loftContent, image{"big.jpg", string(bytes.Repeat([]byte("x"), 4096))})
	w := httptest.NewRecorder()
	r.Body = http.MaxBytesReader(w, r.Body, 1024)

	_, err := f.pipeline().Run(context.Background(), r)

	gwErr := gatewayError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, gwErr.Status)
	assert.Equal(t, 0, f.inventory.CallCount("/properties"))
}

func TestPropertyID(t *testing.T) {
	tests := []struct {
		fields  map[string]any
		want    string
		wantErr bool
	}{
		{fields: map[string]any{"id": float64(12)}, want: "12"},
		{fields: map[string]any{"propertyId": "abc"}, want: "abc"},
		{fields: map[string]any{"_id": "65f0"}, want: "65f0"},
		{fields: map[string]any{"id": "", "propertyId": float64(3)}, want: "3"},
		{fields: map[string]any{"id": true}, wantErr: true},
		{fields: map[string]any{}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := PropertyID(tt.fields)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestUploadTasks(t *testing.T) {
	images := []*multipart.FileHeader{{Filename: "a"}, {Filename: "b"}}

	tasks := UploadTasks("9", images)

	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].Primary)
	assert.False(t, tasks[1].Primary)
	assert.Equal(t, "9", tasks[1].PropertyID)
	assert.Same(t, images[1], tasks[1].Image)
}
