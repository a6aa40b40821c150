package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/geocode"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/pipeline"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/security/auth"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// Caller-facing failure messages.
const (
	MessageNoUserID       = "couldn't fetch user id"
	MessageInvalidForm    = "invalid listing submission"
	MessageNoCoordinates  = "couldn't fetch coordinates"
	MessageGeocodeFailed  = "error resolving coordinates"
	MessageCreateFailed   = "error creating property"
	MessageUploadFailedFn = "error uploading images for property %s"
)

// Stage names used for spans and failure metrics.
const (
	StageOwner   = "owner"
	StageParse   = "parse"
	StageGeocode = "geocode"
	StageCreate  = "create"
	StageUpload  = "upload"
)

// UploadField is the multipart field the image service reads.
const UploadField = "file"

// defaultMaxMemory bounds the in-memory part of a parsed form; larger files
// spill to temporary files.
const defaultMaxMemory = 8 << 20

// createdContract requires the inventory to answer a create with an object
// that identifies the new property.
var createdContract = upstream.MustContract("inventory.created", `{
	"type": "object",
	"anyOf": [
		{"required": ["id"]},
		{"required": ["propertyId"]},
		{"required": ["_id"]}
	]
}`)

// Caller performs orchestration calls.
type Caller interface {
	Call(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
}

// Authenticator verifies the caller and resolves its user id.
type Authenticator interface {
	Authorize(ctx context.Context, r *http.Request) (string, error)
	UserID(ctx context.Context, token string) (string, error)
}

// Locator resolves address text to coordinates.
type Locator interface {
	Lookup(ctx context.Context, address, location string) (geocode.Coordinates, error)
}

// Config holds the backend locations used by the pipeline.
type Config struct {
	InventoryURL string
	ImageURL     string
}

// UploadTask is one image upload, created once the property id is known.
type UploadTask struct {
	PropertyID string
	Primary    bool
	Image      *multipart.FileHeader
}

// Pipeline creates a listing: owner, coordinates, property record, images.
type Pipeline struct {
	client    Caller
	gate      Authenticator
	geocoder  Locator
	createURL string
	uploadURL string
	stages    *pipeline.Stages
}

// New creates the listing pipeline. recorder may be nil.
func New(client Caller, gate Authenticator, geocoder Locator, cfg Config, recorder pipeline.FailureRecorder) *Pipeline {
	return &Pipeline{
		client:    client,
		gate:      gate,
		geocoder:  geocoder,
		createURL: strings.TrimRight(cfg.InventoryURL, "/") + "/properties",
		uploadURL: strings.TrimRight(cfg.ImageURL, "/") + "/upload",
		stages:    pipeline.NewStages("listing", recorder),
	}
}

// Run handles a POST /createProperty request. The request body must already
// be size limited. The result is the inventory's answer for the created
// property; failures are *types.GatewayError.
func (p *Pipeline) Run(ctx context.Context, r *http.Request) (json.RawMessage, error) {
	var ownerID string
	err := p.stages.Run(ctx, StageOwner, func(ctx context.Context) error {
		var err error
		ownerID, err = p.ResolveOwner(ctx, r)
		return err
	})
	if err != nil {
		return nil, ownerError(err)
	}

	var sub *Submission
	err = p.stages.Run(ctx, StageParse, func(context.Context) error {
		if err := r.ParseMultipartForm(defaultMaxMemory); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
		}
		var err error
		sub, err = ParseSubmission(r.MultipartForm)
		return err
	})
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, types.NewGatewayError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds %d bytes.", maxErr.Limit), err)
		}
		return nil, types.NewGatewayError(http.StatusBadRequest, MessageInvalidForm, err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	return p.Create(ctx, sub, ownerID, r.Header.Get("Authorization"))
}

// ResolveOwner verifies the request's token and returns the caller's user
// id. Errors wrap the auth package's sentinels.
func (p *Pipeline) ResolveOwner(ctx context.Context, r *http.Request) (string, error) {
	token, err := p.gate.Authorize(ctx, r)
	if err != nil {
		return "", err
	}
	return p.gate.UserID(ctx, token)
}

// Create runs geocoding, record creation and image uploads for a parsed
// submission. authorization is forwarded to the image service.
func (p *Pipeline) Create(ctx context.Context, sub *Submission, ownerID, authorization string) (json.RawMessage, error) {
	draft := make(map[string]any, len(sub.Draft)+3)
	for k, v := range sub.Draft {
		draft[k] = v
	}
	draft[KeyOwnerID] = ownerID

	err := p.stages.Run(ctx, StageGeocode, func(ctx context.Context) error {
		address, location := sub.Address()
		coords, err := p.geocoder.Lookup(ctx, address, location)
		if err != nil {
			return err
		}
		draft[KeyLongitude] = coords.Longitude
		draft[KeyLatitude] = coords.Latitude
		return nil
	})
	if errors.Is(err, geocode.ErrNoResult) {
		return nil, types.NewNotFoundError(MessageNoCoordinates, err)
	}
	if err != nil {
		return nil, types.NewServerError(MessageGeocodeFailed, err)
	}

	var created json.RawMessage
	var propertyID string
	err = p.stages.Run(ctx, StageCreate, func(ctx context.Context) error {
		var err error
		created, propertyID, err = p.createProperty(ctx, draft)
		return err
	})
	if err != nil {
		return nil, types.NewServerError(MessageCreateFailed, err)
	}
	slog.InfoContext(ctx, "property created",
		"property_id", propertyID,
		"images", len(sub.Images),
	)

	err = p.stages.Run(ctx, StageUpload, func(ctx context.Context) error {
		return p.uploadImages(ctx, UploadTasks(propertyID, sub.Images), authorization)
	})
	if err != nil {
		return nil, types.NewServerError(fmt.Sprintf(MessageUploadFailedFn, propertyID), err)
	}

	return created, nil
}

func (p *Pipeline) createProperty(ctx context.Context, draft map[string]any) (json.RawMessage, string, error) {
	resp, err := p.client.Call(ctx, &upstream.Request{
		Backend: upstream.BackendInventory,
		Method:  http.MethodPost,
		URL:     p.createURL,
		JSON:    draft,
	})
	if err != nil {
		return nil, "", err
	}

	var fields map[string]any
	if err := createdContract.Decode(upstream.BackendInventory, resp.Body, &fields); err != nil {
		return nil, "", err
	}

	id, err := PropertyID(fields)
	if err != nil {
		return nil, "", &upstream.ContractError{
			Backend:  upstream.BackendInventory,
			Contract: createdContract.Name(),
			Cause:    err,
		}
	}
	return resp.Body, id, nil
}

// UploadTasks orders the images for upload; only the first is primary.
func UploadTasks(propertyID string, images []*multipart.FileHeader) []UploadTask {
	tasks := make([]UploadTask, len(images))
	for i, img := range images {
		tasks[i] = UploadTask{
			PropertyID: propertyID,
			Primary:    i == 0,
			Image:      img,
		}
	}
	return tasks
}

// uploadImages uploads one image at a time and stops at the first failure.
// Images already uploaded and the property record are left in place.
func (p *Pipeline) uploadImages(ctx context.Context, tasks []UploadTask, authorization string) error {
	header := http.Header{}
	if authorization != "" {
		header.Set("Authorization", authorization)
	}

	for i, task := range tasks {
		img := task.Image
		_, err := p.client.Call(ctx, &upstream.Request{
			Backend: upstream.BackendImage,
			Method:  http.MethodPost,
			URL:     p.uploadURL,
			Query: url.Values{
				"propertyId": {task.PropertyID},
				"primary":    {strconv.FormatBool(task.Primary)},
			},
			Header: header,
			Files: []upstream.File{{
				Field:       UploadField,
				Filename:    img.Filename,
				ContentType: img.Header.Get("Content-Type"),
				Open: func() (io.ReadCloser, error) {
					return img.Open()
				},
			}},
		})
		if err != nil {
			slog.WarnContext(ctx, "image upload failed, skipping remaining images",
				"property_id", task.PropertyID,
				"index", i,
				"remaining", len(tasks)-i-1,
				"error", err,
			)
			return fmt.Errorf("upload %d of %d: %w", i+1, len(tasks), err)
		}
	}
	return nil
}

// PropertyID extracts the id of a created property from "id", "propertyId"
// or "_id". Numeric ids are formatted without a fraction.
func PropertyID(fields map[string]any) (string, error) {
	for _, key := range []string{"id", "propertyId", "_id"} {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return v, nil
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	}
	return "", errors.New("created property has no id")
}

// ownerError maps owner resolution failures to caller-facing errors.
func ownerError(err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return types.NewUnauthorizedError(auth.MessageMissingToken, err)
	case errors.Is(err, auth.ErrInvalidToken):
		return types.NewUnauthorizedError(auth.MessageInvalidToken, err)
	default:
		return types.NewNotFoundError(MessageNoUserID, err)
	}
}
