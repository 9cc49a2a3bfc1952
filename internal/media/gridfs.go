// Package media stores post images in MongoDB GridFS.
package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxImageSize bounds a single upload.
const MaxImageSize = 5 << 20

var (
	ErrNotFound   = errors.New("media not found")
	ErrNotAnImage = errors.New("upload a valid image")
	ErrTooLarge   = errors.New("image is too large")
)

// Object is an opened stored file.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// Store saves uploads and opens them by reference.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (*Object, error)
}

// GridFSStore implements Store on a GridFS bucket.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

// NewGridFSStore creates a store backed by the "posts" bucket of db.
func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("posts"))
	if err != nil {
		return nil, errors.Wrap(err, "open gridfs bucket")
	}
	return &GridFSStore{bucket: bucket}, nil
}

// Sniff reads the head of r and checks that it is an image. The returned
// reader replays the consumed bytes.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, errors.Wrap(err, "read upload")
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, ErrNotAnImage
	}
	return contentType, io.MultiReader(bytes.NewReader(head), r), nil
}

// Save stores an image and returns its reference.
func (s *GridFSStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	contentType, body, err := Sniff(r)
	if err != nil {
		return "", err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return "", errors.Wrap(err, "set gridfs deadline")
		}
	}

	name := uuid.New().String() + strings.ToLower(path.Ext(filename))
	opts := options.GridFSUpload().SetMetadata(bson.M{
		"content_type": contentType,
		"original":     filename,
		"uploaded_at":  time.Now().UTC(),
	})
	data, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return "", errors.Wrap(err, "read upload")
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}
	id, err := s.bucket.UploadFromStream(name, bytes.NewReader(data), opts)
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	return id.Hex(), nil
}

// Open returns a reader for the stored image.
func (s *GridFSStore) Open(ctx context.Context, ref string) (*Object, error) {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, ErrNotFound
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, errors.Wrap(err, "set gridfs deadline")
		}
	}
	stream, err := s.bucket.OpenDownloadStream(id)
	if err == gridfs.ErrFileNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}

	file := stream.GetFile()
	contentType := "application/octet-stream"
	if v, err := file.Metadata.LookupErr("content_type"); err == nil {
		if ct, ok := v.StringValueOK(); ok {
			contentType = ct
		}
	}
	return &Object{ReadCloser: stream, ContentType: contentType, Size: file.Length}, nil
}
