package rollouts

import (
	"context"
	"errors"
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

func newReplicaSet(name, revision, hash, image string, owned bool) *appsv1.ReplicaSet {
	controller := true
	rs := &appsv1.ReplicaSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   "default",
			Labels:      map[string]string{"app": "demo-app", PodTemplateHashLabel: hash},
			Annotations: map[string]string{RevisionAnnotation: revision},
		},
		Spec: appsv1.ReplicaSetSpec{
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{"app": "demo-app", PodTemplateHashLabel: hash},
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{Name: "demo-app", Image: image}},
				},
			},
		},
	}
	if owned {
		rs.OwnerReferences = []metav1.OwnerReference{{
			APIVersion: "argoproj.io/v1alpha1",
			Kind:       Kind,
			Name:       "demo-app",
			UID:        testUID,
			Controller: &controller,
		}}
	}
	return rs
}

func TestUndoPreviousRevision(t *testing.T) {
	client, _ := newTestClient(t, newRolloutObject("3", false),
		newReplicaSet("demo-app-1", "1", "hash-1", "ghcr.io/deploylab/demo-app:v1", true),
		newReplicaSet("demo-app-2", "2", "hash-2", "ghcr.io/deploylab/demo-app:blue", true),
		newReplicaSet("demo-app-3", "3", "hash-3", "ghcr.io/deploylab/demo-app:green", true),
	)

	if err := client.Undo(context.Background(), "default", "demo-app", 0); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	obj := client.mustGet(t)

	containers, found, err := unstructured.NestedSlice(obj.Object, "spec", "template", "spec", "containers")
	if err != nil || !found || len(containers) == 0 {
		t.Fatalf("rollout template containers missing after undo: %v", err)
	}
	image, _ := containers[0].(map[string]interface{})["image"].(string)
	if image != "ghcr.io/deploylab/demo-app:blue" {
		t.Errorf("Undo() rolled to image %v, want revision 2's blue image", image)
	}

	templateLabels, _, _ := unstructured.NestedStringMap(obj.Object, "spec", "template", "metadata", "labels")
	if _, ok := templateLabels[PodTemplateHashLabel]; ok {
		t.Error("Undo() must not carry the pod template hash label into the rollout spec")
	}
}

func TestUndoToRevision(t *testing.T) {
	client, _ := newTestClient(t, newRolloutObject("3", false),
		newReplicaSet("demo-app-1", "1", "hash-1", "ghcr.io/deploylab/demo-app:v1", true),
		newReplicaSet("demo-app-2", "2", "hash-2", "ghcr.io/deploylab/demo-app:blue", true),
	)

	if err := client.Undo(context.Background(), "default", "demo-app", 1); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	obj := client.mustGet(t)
	containers, _, _ := unstructured.NestedSlice(obj.Object, "spec", "template", "spec", "containers")
	image, _ := containers[0].(map[string]interface{})["image"].(string)
	if image != "ghcr.io/deploylab/demo-app:v1" {
		t.Errorf("Undo(1) rolled to image %v, want revision 1's image", image)
	}
}

func TestUndoNoPreviousRevision(t *testing.T) {
	// Only the current revision exists.
	client, _ := newTestClient(t, newRolloutObject("3", false),
		newReplicaSet("demo-app-3", "3", "hash-3", "ghcr.io/deploylab/demo-app:green", true),
	)

	err := client.Undo(context.Background(), "default", "demo-app", 0)
	if !errors.Is(err, apperrors.ErrRollout) {
		t.Errorf("Undo() error = %v, want ErrRollout", err)
	}
}

func TestUndoMissingRevision(t *testing.T) {
	client, _ := newTestClient(t, newRolloutObject("3", false),
		newReplicaSet("demo-app-2", "2", "hash-2", "ghcr.io/deploylab/demo-app:blue", true),
	)

	err := client.Undo(context.Background(), "default", "demo-app", 9)
	if !errors.Is(err, apperrors.ErrRollout) {
		t.Errorf("Undo() error = %v, want ErrRollout", err)
	}
}

func TestUndoIgnoresUnownedReplicaSets(t *testing.T) {
	client, _ := newTestClient(t, newRolloutObject("3", false),
		newReplicaSet("demo-app-2", "2", "hash-2", "ghcr.io/deploylab/demo-app:blue", false),
	)

	err := client.Undo(context.Background(), "default", "demo-app", 0)
	if !errors.Is(err, apperrors.ErrRollout) {
		t.Errorf("Undo() with only unowned ReplicaSets error = %v, want ErrRollout", err)
	}
}
