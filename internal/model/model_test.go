package model

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Ref
	}{
		{name: "bare id", in: `"abc"`, want: "abc"},
		{name: "null", in: `null`, want: ""},
		{name: "populated mongo document", in: `{"_id":"f1","nombre":"Rosas"}`, want: "f1"},
		{name: "populated document with id", in: `{"id":"f2"}`, want: "f2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.Equal(t, tt.want, r)
		})
	}

	var r Ref
	assert.Error(t, json.Unmarshal([]byte(`42`), &r))
}

func TestProduct_UnmarshalJSON(t *testing.T) {
	t.Run("multi-valued categories", func(t *testing.T) {
		var p Product
		err := json.Unmarshal([]byte(`{
			"_id": "p1", "nombre": "Ramo", "precio": 25.5, "stock": 3,
			"floristeria": {"_id": "s1", "nombre": "Flores del Paraíso"},
			"categorias": [{"_id": "c1"}, "c2"]
		}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, "25.5", p.Price.String())
		assert.Equal(t, Ref("s1"), p.StoreID)
		assert.Equal(t, []string{"c1", "c2"}, p.CategoryIDs.Strings())
	})

	t.Run("legacy single category is migrated", func(t *testing.T) {
		var p Product
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"p2","categoria":"rosas","floristeria":"s1"}`), &p))
		assert.Equal(t, []string{"rosas"}, p.CategoryIDs.Strings())
	})

	t.Run("categorias wins over legacy field", func(t *testing.T) {
		var p Product
		require.NoError(t, json.Unmarshal([]byte(`{"categoria":"old","categorias":["new"]}`), &p))
		assert.Equal(t, []string{"new"}, p.CategoryIDs.Strings())
	})
}

func TestIdentity_UnmarshalJSON(t *testing.T) {
	var id Identity
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"u1","nombre":"Ana","role":"usuario","floristeria":{"_id":"s9"}}`), &id))

	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "Ana", id.DisplayName)
	assert.Equal(t, RoleStoreUser, id.Role)
	assert.Equal(t, "s9", id.StoreID)
	assert.True(t, id.Complete())

	out, err := json.Marshal(id)
	require.NoError(t, err)
	var back Identity
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, id, back)
}

func TestIdentity_Complete(t *testing.T) {
	assert.True(t, Identity{Role: RoleAdmin}.Complete())
	assert.False(t, Identity{Role: RoleStoreUser}.Complete())
	assert.False(t, Identity{Role: "superuser"}.Complete())
}

func TestIdentity_Scope(t *testing.T) {
	assert.Equal(t, "admin", Identity{UserID: "u1", Role: RoleAdmin}.Scope())
	assert.Equal(t, "usuario/s1", Identity{UserID: "u2", Role: RoleStoreUser, StoreID: "s1"}.Scope())
	assert.Equal(t,
		Identity{UserID: "u2", Role: RoleStoreUser, StoreID: "s1"}.Scope(),
		Identity{UserID: "u3", Role: RoleStoreUser, StoreID: "s1"}.Scope(),
		"users of one store share a scope")
	assert.NotEqual(t,
		Identity{Role: RoleStoreUser, StoreID: "s1"}.Scope(),
		Identity{Role: RoleStoreUser, StoreID: "s2"}.Scope())
}

func TestUpload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		wantErr error
	}{
		{
			name:   "png within limit",
			upload: Upload{Filename: "a.png", ContentType: "image/png", Data: pngHeader, Size: int64(len(pngHeader))},
		},
		{
			name:    "six megabytes is rejected without data",
			upload:  Upload{Filename: "big.jpg", ContentType: "image/jpeg", Size: 6 << 20},
			wantErr: ErrImageTooLarge,
		},
		{
			name:    "data larger than declared size",
			upload:  Upload{Filename: "big.png", Data: append(pngHeader, bytes.Repeat([]byte{0}, MaxImageSize)...)},
			wantErr: ErrImageTooLarge,
		},
		{
			name:    "declared non-image type",
			upload:  Upload{Filename: "a.pdf", ContentType: "application/pdf", Data: pngHeader},
			wantErr: ErrNotAnImage,
		},
		{
			name:    "text disguised as image",
			upload:  Upload{Filename: "a.png", ContentType: "image/png", Data: []byte("hello world")},
			wantErr: ErrNotAnImage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.upload.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProductInput_FormFields(t *testing.T) {
	p := Product{ID: "p1", Name: "Ramo", Stock: 4, StoreID: "s1", CategoryIDs: Refs{"c1", "c2"}}
	in := ProductInputFrom(p)

	v := in.FormFields()
	assert.Equal(t, "Ramo", v.Get("nombre"))
	assert.Equal(t, "4", v.Get("stock"))
	assert.Equal(t, "0", v.Get("precio"))
	assert.Equal(t, []string{"c1", "c2"}, v["categorias"])

	field, upload := in.Attachment()
	assert.Equal(t, "imagen", field)
	assert.Nil(t, upload)
}
