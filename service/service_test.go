// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/xmlcodec"
	"github.com/luxfi/xmlcodec/elementcodec"
	"github.com/luxfi/xmlcodec/internal/samples"
)

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  any             `json:"error"`
}

func newServer(t *testing.T) (*httptest.Server, xmlcodec.Manager) {
	t.Helper()

	reg := xmlcodec.NewTypeRegistry()
	require.NoError(t, samples.Register(reg))
	m := xmlcodec.NewDefaultManager()
	require.NoError(t, m.RegisterCodec(0, elementcodec.New(reg, 0)))

	h, err := NewHandler(reg, m)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, m
}

func call(t *testing.T, srv *httptest.Server, method string, args any, reply any) any {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"method": Name + "." + method,
		"params": []any{args},
		"id":     1,
	})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	if out.Error != nil {
		return out.Error
	}
	require.NoError(t, json.Unmarshal(out.Result, reply))
	return nil
}

func TestIsXMLable(t *testing.T) {
	require := require.New(t)
	srv, _ := newServer(t)

	var reply IsXMLableReply
	require.Nil(call(t, srv, "IsXMLable", IsXMLableArgs{Element: "person"}, &reply))
	require.True(reply.XMLable)
	require.Equal("samples.Person", reply.GoType)

	reply = IsXMLableReply{}
	require.Nil(call(t, srv, "IsXMLable", IsXMLableArgs{Element: "Car"}, &reply))
	require.False(reply.XMLable)

	require.NotNil(call(t, srv, "IsXMLable", IsXMLableArgs{}, &reply))
}

func TestTypes(t *testing.T) {
	require := require.New(t)
	srv, _ := newServer(t)

	var reply TypesReply
	require.Nil(call(t, srv, "Types", TypesArgs{}, &reply))

	names := []string{}
	for _, e := range reply.Manifest.Types {
		names = append(names, e.Element)
	}
	require.Equal([]string{"address", "book", "person"}, names)
}

func TestDecode(t *testing.T) {
	require := require.New(t)
	srv, m := newServer(t)

	doc, err := m.Marshal(0, samples.Objects()...)
	require.NoError(err)

	var reply struct {
		Version uint16            `json:"version"`
		Objects []json.RawMessage `json:"objects"`
	}
	require.Nil(call(t, srv, "Decode", DecodeArgs{XML: string(doc)}, &reply))
	require.Len(reply.Objects, 4)
	require.JSONEq(`null`, string(reply.Objects[2]))

	var ada Object
	require.NoError(json.Unmarshal(reply.Objects[0], &ada))
	require.Equal("person", ada.Element)
	require.Equal("Ada Lovelace", ada.Fields["name"])
	require.Equal(float64(36), ada.Fields["age"])
	require.Equal([]any{"mathematician", "writer"}, ada.Fields["tags"])
	require.Equal("London", ada.Fields["home"].(map[string]any)["fields"].(map[string]any)["city"])

	var book Object
	require.NoError(json.Unmarshal(reply.Objects[3], &book))
	require.Equal("19.99", book.Fields["price"])
	require.Len(book.Fields["authors"], 1)

	require.NotNil(call(t, srv, "Decode", DecodeArgs{XML: "<broken"}, &reply))
}

func TestRenderHidesUnserializedFields(t *testing.T) {
	require := require.New(t)

	reg := xmlcodec.NewTypeRegistry()
	obj, err := Render(reg, &samples.Person{Name: "Grace", Nickname: "Amazing"})
	require.NoError(err)
	require.Equal("person", obj.Element)
	require.NotContains(obj.Fields, "Nickname")
	require.Nil(obj.Fields["home"])

	_, err = Render(reg, (*samples.Person)(nil))
	require.ErrorIs(err, xmlcodec.ErrMarshalNil)

	_, err = Render(reg, samples.Car{})
	require.ErrorIs(err, xmlcodec.ErrNotXMLable)
}
