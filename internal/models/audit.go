package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadAudit is the persisted trail of one dataset upload. Only metadata is
// stored; the record data itself lives in memory for the session and is
// never persisted.
type UploadAudit struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DatasetID  string             `bson:"dataset_id" json:"dataset_id"`
	UploadedBy string             `bson:"uploaded_by" json:"uploaded_by"`
	Files      []SourceFile       `bson:"files" json:"files"`
	Records    int                `bson:"records" json:"records"`
	Vessels    []string           `bson:"vessels" json:"vessels"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
