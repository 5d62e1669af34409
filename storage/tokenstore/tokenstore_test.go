package tokenstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	filestore "github.com/trezcool/shule/storage/tokenstore/file"
	inmemstore "github.com/trezcool/shule/storage/tokenstore/inmem"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tokenFile := filepath.Join(t.TempDir(), "session.json")

	tests := []struct {
		name    string
		store   string
		want    interface{}
		wantErr bool
	}{
		{name: "memory", store: "memory", want: &inmemstore.Store{}},
		{name: "file", store: "file", want: &filestore.Store{}},
		{name: "default", store: "", want: &filestore.Store{}},
		{name: "unknown", store: "etcd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &core.Config{Auth: core.AuthConfig{Store: tt.store, TokenFile: tokenFile}}
			got, err := Open(ctx, conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}
