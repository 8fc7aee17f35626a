package kube

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kubefake "k8s.io/client-go/kubernetes/fake"

	"github.com/deploylab/bluegreen/pkg/bluegreen/database"
	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
)

var rolloutListGVR = map[schema.GroupVersionResource]string{
	{Group: "argoproj.io", Version: "v1alpha1", Resource: "rollouts"}: "RolloutList",
}

func newTestApplier(t *testing.T, objects ...runtime.Object) (*Applier, *journal.Store) {
	t.Helper()

	scheme := runtime.NewScheme()
	if err := corev1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to build scheme: %v", err)
	}

	clientset := kubefake.NewSimpleClientset()
	dynamicClient := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, rolloutListGVR, objects...)

	db, err := database.NewTestDB(t)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	store := journal.NewStore(db, logr.Discard())

	return NewApplier(clientset, dynamicClient, logr.Discard(), store, "bluegreen-test"), store
}

func TestNewApplierDefaultFieldManager(t *testing.T) {
	applier := NewApplier(nil, nil, logr.Discard(), nil, "")
	if applier.fieldManager != "bluegreen" {
		t.Errorf("NewApplier() fieldManager = %v, want bluegreen", applier.fieldManager)
	}
}

func TestResolveResourceNameFallback(t *testing.T) {
	applier := NewApplier(nil, nil, logr.Discard(), nil, "")

	tests := []struct {
		gvk  schema.GroupVersionKind
		want string
	}{
		{schema.GroupVersionKind{Group: "argoproj.io", Version: "v1alpha1", Kind: "Rollout"}, "rollouts"},
		{schema.GroupVersionKind{Group: "", Version: "v1", Kind: "Service"}, "services"},
	}

	for _, tt := range tests {
		if got := applier.resolveResourceName(tt.gvk); got != tt.want {
			t.Errorf("resolveResourceName(%v) = %v, want %v", tt.gvk.Kind, got, tt.want)
		}
	}

	// Second lookup hits the cache.
	if got := applier.resolveResourceName(tests[0].gvk); got != "rollouts" {
		t.Errorf("cached resolveResourceName() = %v, want rollouts", got)
	}
}

func TestApplyManifestInvalidYAML(t *testing.T) {
	applier, _ := newTestApplier(t)

	_, err := applier.ApplyManifest(context.Background(), []byte("kind: [unclosed"))
	if err == nil {
		t.Error("ApplyManifest() should fail for invalid YAML")
	}
}

func TestApplyManifestMissingName(t *testing.T) {
	applier, _ := newTestApplier(t)

	_, err := applier.ApplyManifest(context.Background(), []byte("apiVersion: v1\nkind: Service\nmetadata: {}\n"))
	if err == nil {
		t.Error("ApplyManifest() should fail for object without a name")
	}
}

func TestDeleteObject(t *testing.T) {
	service := &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{Name: "demo-app-active", Namespace: "default"},
	}
	applier, store := newTestApplier(t, service)

	obj, err := ParseObject([]byte("apiVersion: v1\nkind: Service\nmetadata:\n  name: demo-app-active\n  namespace: default\n"))
	if err != nil {
		t.Fatalf("ParseObject() error = %v", err)
	}

	if err := applier.DeleteObject(context.Background(), obj); err != nil {
		t.Fatalf("DeleteObject() error = %v", err)
	}

	entries, err := store.List(journal.Filters{Op: "delete"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("journal has %d delete entries, want 1", len(entries))
	}
	if entries[0].Subject != "default/Service/demo-app-active" {
		t.Errorf("journal subject = %v, want default/Service/demo-app-active", entries[0].Subject)
	}
	if entries[0].Level != journal.LevelSuccess {
		t.Errorf("journal level = %v, want success", entries[0].Level)
	}
}

func TestDeleteObjectAlreadyGone(t *testing.T) {
	applier, store := newTestApplier(t)

	obj, err := ParseObject([]byte("apiVersion: v1\nkind: Service\nmetadata:\n  name: never-existed\n  namespace: default\n"))
	if err != nil {
		t.Fatalf("ParseObject() error = %v", err)
	}

	if err := applier.DeleteObject(context.Background(), obj); err != nil {
		t.Fatalf("DeleteObject() on missing object error = %v, want nil", err)
	}

	entries, err := store.List(journal.Filters{Op: "delete"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Level != journal.LevelInfo {
		t.Errorf("journal should record an info entry for already-deleted resource, got %+v", entries)
	}
}
