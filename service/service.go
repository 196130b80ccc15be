// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package service exposes a type registry and codec manager over JSON-RPC.
package service

import (
	"errors"
	"net/http"

	"github.com/gorilla/rpc"
	rpcjson "github.com/gorilla/rpc/json"

	"github.com/luxfi/xmlcodec"
	"github.com/luxfi/xmlcodec/manifest"
)

// Name is the service name methods are registered under
const Name = "xmlable"

var errEmptyElement = errors.New("element name is empty")

// Service answers registry and decoding queries
type Service struct {
	registry *xmlcodec.TypeRegistry
	manager  xmlcodec.Manager
}

// New returns a Service over reg and m
func New(reg *xmlcodec.TypeRegistry, m xmlcodec.Manager) *Service {
	return &Service{
		registry: reg,
		manager:  m,
	}
}

// NewHandler returns an http.Handler serving the JSON-RPC API
func NewHandler(reg *xmlcodec.TypeRegistry, m xmlcodec.Manager) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(rpcjson.NewCodec(), "application/json")
	if err := server.RegisterService(New(reg, m), Name); err != nil {
		return nil, err
	}
	return server, nil
}

type IsXMLableArgs struct {
	Element string `json:"element"`
}

type IsXMLableReply struct {
	XMLable bool   `json:"xmlable"`
	GoType  string `json:"goType,omitempty"`
}

// IsXMLable reports whether a tagged type is registered under an element name
func (s *Service) IsXMLable(_ *http.Request, args *IsXMLableArgs, reply *IsXMLableReply) error {
	if args.Element == "" {
		return errEmptyElement
	}
	d, ok := s.registry.LookupElement(args.Element)
	if !ok {
		reply.XMLable = false
		return nil
	}
	reply.XMLable = xmlcodec.IsXMLable(d.Type)
	reply.GoType = d.Type.String()
	return nil
}

type TypesArgs struct{}

type TypesReply struct {
	Manifest manifest.Manifest `json:"manifest"`
}

// Types lists the registered types
func (s *Service) Types(_ *http.Request, _ *TypesArgs, reply *TypesReply) error {
	reply.Manifest = manifest.Snapshot(s.registry)
	return nil
}

type DecodeArgs struct {
	XML string `json:"xml"`
}

type DecodeReply struct {
	Version uint16 `json:"version"`
	Objects []any  `json:"objects"`
}

// Decode unmarshals a document and returns its objects as JSON values
func (s *Service) Decode(_ *http.Request, args *DecodeArgs, reply *DecodeReply) error {
	version, values, err := s.manager.Unmarshal([]byte(args.XML))
	if err != nil {
		return err
	}
	objects, err := RenderAll(s.registry, values)
	if err != nil {
		return err
	}
	reply.Version = version
	reply.Objects = objects
	return nil
}
