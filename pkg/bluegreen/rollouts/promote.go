package rollouts

import (
	"context"
	"encoding/json"
	"fmt"

	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
)

// Promote lets a paused blue/green rollout proceed: pause conditions are
// cleared and spec.paused is lifted, the same patch the upstream plugin
// issues. With full set, the controller also skips remaining analysis via
// status.promoteFull.
func (c *Client) Promote(ctx context.Context, namespace, name string, full bool) error {
	obj, err := c.get(ctx, namespace, name)
	if err != nil {
		return err
	}

	statusPatch := map[string]interface{}{
		"pauseConditions": nil,
	}
	if full {
		statusPatch["promoteFull"] = true
	}

	var specPatch map[string]interface{}
	if paused, _, _ := unstructured.NestedBool(obj.Object, "spec", "paused"); paused {
		specPatch = map[string]interface{}{"paused": false}
	}

	if err := c.patch(ctx, namespace, name, specPatch, statusPatch); err != nil {
		journal.RecordSafe(c.recorder, c.logger, journal.Failure("promote", c.subject(namespace, name), "Failed to promote rollout", err))
		return err
	}

	c.logger.Info("Promoted rollout", "namespace", namespace, "name", name, "full", full)
	journal.RecordSafe(c.recorder, c.logger, journal.Success("promote", c.subject(namespace, name), "Promoted rollout"))
	return nil
}

// Abort stops the in-flight update and scales the stable ReplicaSet back up.
func (c *Client) Abort(ctx context.Context, namespace, name string) error {
	if _, err := c.get(ctx, namespace, name); err != nil {
		return err
	}

	statusPatch := map[string]interface{}{"abort": true}
	if err := c.patch(ctx, namespace, name, nil, statusPatch); err != nil {
		journal.RecordSafe(c.recorder, c.logger, journal.Failure("abort", c.subject(namespace, name), "Failed to abort rollout", err))
		return err
	}

	c.logger.Info("Aborted rollout", "namespace", namespace, "name", name)
	journal.RecordSafe(c.recorder, c.logger, journal.Success("abort", c.subject(namespace, name), "Aborted rollout"))
	return nil
}

// Retry clears an abort so the controller re-attempts the update.
func (c *Client) Retry(ctx context.Context, namespace, name string) error {
	if _, err := c.get(ctx, namespace, name); err != nil {
		return err
	}

	statusPatch := map[string]interface{}{"abort": false}
	if err := c.patch(ctx, namespace, name, nil, statusPatch); err != nil {
		journal.RecordSafe(c.recorder, c.logger, journal.Failure("retry", c.subject(namespace, name), "Failed to retry rollout", err))
		return err
	}

	c.logger.Info("Retrying rollout", "namespace", namespace, "name", name)
	journal.RecordSafe(c.recorder, c.logger, journal.Success("retry", c.subject(namespace, name), "Retrying rollout"))
	return nil
}

// patch applies status changes through the status subresource, which the
// Rollout CRD enables, so they are not stripped from a main-resource patch.
// Clusters running a CRD without the subresource report NotFound for it; in
// that case status and spec are folded into a single main-resource patch.
func (c *Client) patch(ctx context.Context, namespace, name string, specPatch, statusPatch map[string]interface{}) error {
	rolloutIf := c.dynamicClient.Resource(GVR).Namespace(namespace)

	if statusPatch != nil {
		data, err := json.Marshal(map[string]interface{}{"status": statusPatch})
		if err != nil {
			return fmt.Errorf("failed to marshal status patch: %w", err)
		}

		_, err = rolloutIf.Patch(ctx, name, types.MergePatchType, data, metav1.PatchOptions{}, "status")
		if k8serrors.IsNotFound(err) {
			unified := map[string]interface{}{"status": statusPatch}
			if specPatch != nil {
				unified["spec"] = specPatch
				specPatch = nil
			}
			data, err = json.Marshal(unified)
			if err != nil {
				return fmt.Errorf("failed to marshal patch: %w", err)
			}
			_, err = rolloutIf.Patch(ctx, name, types.MergePatchType, data, metav1.PatchOptions{})
		}
		if err != nil {
			return apperrors.WrapKubernetes(err, fmt.Sprintf("patch rollout %s/%s", namespace, name))
		}
	}

	if specPatch != nil {
		data, err := json.Marshal(map[string]interface{}{"spec": specPatch})
		if err != nil {
			return fmt.Errorf("failed to marshal spec patch: %w", err)
		}
		_, err = rolloutIf.Patch(ctx, name, types.MergePatchType, data, metav1.PatchOptions{})
		if err != nil {
			return apperrors.WrapKubernetes(err, fmt.Sprintf("patch rollout %s/%s", namespace, name))
		}
	}
	return nil
}
