package spclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"spfs/domain/sharepoint"
)

// flexInt64 accepts Edm.Int64 values encoded either as JSON numbers or as
// strings, which is how SharePoint serializes Length.
type flexInt64 struct {
	Value int64
	Set   bool
}

func (f *flexInt64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse int64 %q: %w", s, err)
		}
		f.Value, f.Set = v, true
		return nil
	}
	if err := json.Unmarshal(b, &f.Value); err != nil {
		return err
	}
	f.Set = true
	return nil
}

// objectApiResponse is the subset of SP.File / SP.Folder fields the adapter needs.
type objectApiResponse struct {
	Metadata *struct {
		Type string `json:"type"`
	} `json:"__metadata"`
	Name              string    `json:"Name"`
	ServerRelativeUrl string    `json:"ServerRelativeUrl"`
	TimeLastModified  string    `json:"TimeLastModified"`
	Modified          string    `json:"Modified"`
	Length            flexInt64 `json:"Length"`
	Exists            *bool     `json:"Exists"`
}

// Verbose OData envelopes: {"d": {...}} and {"d": {"results": [...]}}
type verboseObjectEnvelope struct {
	D *objectApiResponse `json:"d"`
}

type verboseCollectionEnvelope struct {
	D *struct {
		Results []objectApiResponse `json:"results"`
	} `json:"d"`
}

// Minimal OData collection: {"value": [...]}
type minimalCollectionEnvelope struct {
	Value []objectApiResponse `json:"value"`
}

// decodeObject auto-detects verbose vs minimal JSON for a single object.
func decodeObject(b []byte) (objectApiResponse, error) {
	var env verboseObjectEnvelope
	if err := json.Unmarshal(b, &env); err == nil && env.D != nil {
		return *env.D, nil
	}
	var obj objectApiResponse
	if err := json.Unmarshal(b, &obj); err != nil {
		return objectApiResponse{}, err
	}
	return obj, nil
}

// decodeCollection auto-detects verbose vs minimal JSON for a collection.
func decodeCollection(b []byte) ([]objectApiResponse, error) {
	var verbose verboseCollectionEnvelope
	if err := json.Unmarshal(b, &verbose); err == nil && verbose.D != nil {
		return verbose.D.Results, nil
	}
	var minimal minimalCollectionEnvelope
	if err := json.Unmarshal(b, &minimal); err != nil {
		return nil, err
	}
	return minimal.Value, nil
}

// toRawEntry maps an API object to the client boundary record. fallbackType
// is used when the payload carries no __metadata block.
func (o objectApiResponse) toRawEntry(fallbackType string) sharepoint.RawEntry {
	entry := sharepoint.RawEntry{
		Metadata:          sharepoint.EntryMetadata{Type: fallbackType},
		Name:              o.Name,
		ServerRelativeURL: o.ServerRelativeUrl,
		TimeLastModified:  o.TimeLastModified,
		Modified:          o.Modified,
	}
	if o.Metadata != nil && o.Metadata.Type != "" {
		entry.Metadata.Type = o.Metadata.Type
	}
	if o.Length.Set {
		size := o.Length.Value
		entry.Size = &size
	}
	return entry
}
