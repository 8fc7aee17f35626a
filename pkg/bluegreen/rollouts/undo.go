package rollouts

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
)

// Undo rolls the rollout's pod template back to an earlier ReplicaSet
// revision. toRevision zero means the newest revision older than the
// current one.
func (c *Client) Undo(ctx context.Context, namespace, name string, toRevision int64) error {
	obj, err := c.get(ctx, namespace, name)
	if err != nil {
		return err
	}

	rs, err := c.findRevision(ctx, obj, toRevision)
	if err != nil {
		journal.RecordSafe(c.recorder, c.logger, journal.Failure("undo", c.subject(namespace, name), "Failed to resolve target revision", err))
		return err
	}

	patch, err := templatePatch(rs)
	if err != nil {
		return err
	}

	if err := c.patch(ctx, namespace, name, patch); err != nil {
		journal.RecordSafe(c.recorder, c.logger, journal.Failure("undo", c.subject(namespace, name), "Failed to roll back rollout", err))
		return err
	}

	revision := rs.Annotations[RevisionAnnotation]
	c.logger.Info("Rolled back rollout", "namespace", namespace, "name", name, "revision", revision)
	journal.RecordSafe(c.recorder, c.logger, journal.Success("undo", c.subject(namespace, name), fmt.Sprintf("Rolled back to revision %s", revision)))
	return nil
}

// findRevision locates the ReplicaSet owned by the rollout that carries
// the requested revision.
func (c *Client) findRevision(ctx context.Context, obj *unstructured.Unstructured, toRevision int64) (*appsv1.ReplicaSet, error) {
	matchLabels, found, err := unstructured.NestedStringMap(obj.Object, "spec", "selector", "matchLabels")
	if err != nil || !found || len(matchLabels) == 0 {
		return nil, fmt.Errorf("%w: rollout %s has no selector", apperrors.ErrRollout, obj.GetName())
	}

	selector := labels.SelectorFromSet(matchLabels)
	rsList, err := c.clientset.AppsV1().ReplicaSets(obj.GetNamespace()).List(ctx, metav1.ListOptions{LabelSelector: selector.String()})
	if err != nil {
		return nil, apperrors.WrapKubernetes(err, "list ReplicaSets for rollout "+obj.GetName())
	}

	currentRevision, _ := strconv.ParseInt(obj.GetAnnotations()[RevisionAnnotation], 10, 64)

	var best *appsv1.ReplicaSet
	var bestRevision int64
	for i := range rsList.Items {
		rs := &rsList.Items[i]
		if !metav1.IsControlledBy(rs, obj) {
			continue
		}

		revision, err := strconv.ParseInt(rs.Annotations[RevisionAnnotation], 10, 64)
		if err != nil {
			continue
		}

		if toRevision > 0 {
			if revision == toRevision {
				return rs, nil
			}
			continue
		}

		// Default: newest revision strictly older than the current one.
		if revision < currentRevision && revision > bestRevision {
			best = rs
			bestRevision = revision
		}
	}

	if toRevision > 0 {
		return nil, fmt.Errorf("%w: revision %d not found for rollout %s", apperrors.ErrRollout, toRevision, obj.GetName())
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no previous revision for rollout %s", apperrors.ErrRollout, obj.GetName())
	}
	return best, nil
}

// templatePatch builds the merge patch that replaces the rollout's pod
// template with the ReplicaSet's, dropping the controller-owned hash label.
func templatePatch(rs *appsv1.ReplicaSet) (map[string]interface{}, error) {
	specData, err := json.Marshal(rs.Spec.Template.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pod spec: %w", err)
	}
	var podSpec map[string]interface{}
	if err := json.Unmarshal(specData, &podSpec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pod spec: %w", err)
	}

	// Explicit null removes the hash label under JSON merge patch
	// semantics; the controller stamps the new revision's own.
	templateLabels := map[string]interface{}{PodTemplateHashLabel: nil}
	for k, v := range rs.Spec.Template.Labels {
		if k != PodTemplateHashLabel {
			templateLabels[k] = v
		}
	}

	return map[string]interface{}{
		"spec": map[string]interface{}{
			"template": map[string]interface{}{
				"metadata": map[string]interface{}{
					"labels": templateLabels,
				},
				"spec": podSpec,
			},
		},
	}, nil
}
