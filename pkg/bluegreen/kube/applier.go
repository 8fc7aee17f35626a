package kube

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
)

// Applier pushes rendered manifests to the cluster with server-side apply
// and records every outcome in the journal.
type Applier struct {
	clientset         kubernetes.Interface
	dynamicClient     dynamic.Interface
	discovery         discovery.DiscoveryInterface
	logger            logr.Logger
	recorder          journal.Recorder
	fieldManager      string
	resourceNameCache map[string]string
	cacheMu           sync.RWMutex
}

// NewApplier creates an Applier. If fieldManager is empty, it defaults to
// "bluegreen". recorder may be nil.
func NewApplier(clientset kubernetes.Interface, dynamicClient dynamic.Interface, logger logr.Logger, recorder journal.Recorder, fieldManager string) *Applier {
	if fieldManager == "" {
		fieldManager = "bluegreen"
	}

	var disc discovery.DiscoveryInterface
	if clientset != nil {
		disc = clientset.Discovery()
	}

	return &Applier{
		clientset:         clientset,
		dynamicClient:     dynamicClient,
		discovery:         disc,
		logger:            logger,
		recorder:          recorder,
		fieldManager:      fieldManager,
		resourceNameCache: make(map[string]string),
	}
}

// ApplyManifest parses a (possibly multi-document) manifest and applies
// every object in it, in order. The first failure aborts.
func (a *Applier) ApplyManifest(ctx context.Context, data []byte) ([]string, error) {
	docs, err := SplitDocuments(data)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, doc := range docs {
		obj, err := ParseObject(doc)
		if err != nil {
			return keys, err
		}
		if err := a.ApplyObject(ctx, obj); err != nil {
			return keys, err
		}
		keys = append(keys, KeyFor(obj))
	}

	return keys, nil
}

// ApplyObject server-side applies one object, forcing conflicts in our
// favor the way kubectl apply --server-side --force-conflicts does.
func (a *Applier) ApplyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	key := KeyFor(obj)

	resourceInterface, err := a.resourceInterfaceFor(obj)
	if err != nil {
		journal.RecordSafe(a.recorder, a.logger, journal.Failure("deploy", key, "Failed to resolve resource", err))
		return err
	}

	_, err = resourceInterface.Apply(ctx, obj.GetName(), obj, metav1.ApplyOptions{FieldManager: a.fieldManager, Force: true})
	if err != nil {
		err = fmt.Errorf("%w: apply %s: %w", apperrors.ErrKubernetes, key, err)
		journal.RecordSafe(a.recorder, a.logger, journal.Failure("deploy", key, "Failed to apply manifest to cluster", err))
		return err
	}

	a.logger.Info("Applied resource", "key", key)
	journal.RecordSafe(a.recorder, a.logger, journal.Success("deploy", key, "Applied manifest"))
	return nil
}

// DeleteObject removes one object. Missing objects are not an error.
func (a *Applier) DeleteObject(ctx context.Context, obj *unstructured.Unstructured) error {
	key := KeyFor(obj)

	resourceInterface, err := a.resourceInterfaceFor(obj)
	if err != nil {
		journal.RecordSafe(a.recorder, a.logger, journal.Failure("delete", key, "Failed to resolve resource", err))
		return err
	}

	err = resourceInterface.Delete(ctx, obj.GetName(), metav1.DeleteOptions{})
	if err != nil && !k8serrors.IsNotFound(err) {
		err = fmt.Errorf("%w: delete %s: %w", apperrors.ErrKubernetes, key, err)
		journal.RecordSafe(a.recorder, a.logger, journal.Failure("delete", key, "Failed to delete resource from cluster", err))
		return err
	}

	if k8serrors.IsNotFound(err) {
		a.logger.Info("Resource already deleted from cluster", "key", key)
		journal.RecordSafe(a.recorder, a.logger, journal.Info("delete", key, "Resource already deleted from cluster"))
	} else {
		a.logger.Info("Deleted resource", "key", key)
		journal.RecordSafe(a.recorder, a.logger, journal.Success("delete", key, "Deleted resource"))
	}
	return nil
}

func (a *Applier) resourceInterfaceFor(obj *unstructured.Unstructured) (dynamic.ResourceInterface, error) {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return nil, fmt.Errorf("%w: object %s missing kind", apperrors.ErrInvalid, obj.GetName())
	}

	gvr := schema.GroupVersionResource{
		Group:    gvk.Group,
		Version:  gvk.Version,
		Resource: a.resolveResourceName(gvk),
	}

	if obj.GetNamespace() != "" {
		return a.dynamicClient.Resource(gvr).Namespace(obj.GetNamespace()), nil
	}
	return a.dynamicClient.Resource(gvr), nil
}
