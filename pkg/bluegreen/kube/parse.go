package kube

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	k8syaml "k8s.io/apimachinery/pkg/util/yaml"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

// SplitDocuments splits multi-document YAML into individual documents,
// dropping empty ones.
func SplitDocuments(data []byte) ([][]byte, error) {
	reader := k8syaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))

	var docs [][]byte
	for {
		doc, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.WrapInvalidYAML(err, "failed to read YAML document")
		}
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// ParseObject decodes one YAML document into an unstructured object. The
// document must carry kind and metadata.name.
func ParseObject(data []byte) (*unstructured.Unstructured, error) {
	jsonData, err := k8syaml.ToJSON(data)
	if err != nil {
		return nil, apperrors.WrapInvalidYAML(err, "failed to convert YAML to JSON")
	}

	obj := &unstructured.Unstructured{}
	if err := obj.UnmarshalJSON(jsonData); err != nil {
		return nil, apperrors.WrapInvalidYAML(err, "failed to decode object")
	}

	if obj.GetKind() == "" {
		return nil, fmt.Errorf("%w: object missing kind", apperrors.ErrInvalid)
	}
	if obj.GetName() == "" {
		return nil, fmt.Errorf("%w: object missing metadata.name", apperrors.ErrInvalid)
	}

	return obj, nil
}

// KeyFor builds the namespace/Kind/name key used for journal subjects and
// lookups. Cluster-scoped objects use "default" as the namespace slot.
func KeyFor(obj *unstructured.Unstructured) string {
	namespace := obj.GetNamespace()
	if namespace == "" {
		namespace = "default"
	}
	return strings.Join([]string{namespace, obj.GetKind(), obj.GetName()}, "/")
}
