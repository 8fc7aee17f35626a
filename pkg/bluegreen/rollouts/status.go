package rollouts

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

// PodInfo is what the inspect surface reports per pod: the running image
// and the revision hash the controller stamped on it.
type PodInfo struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	TemplateHash string `json:"templateHash"`
	Phase        string `json:"phase"`
	Ready        bool   `json:"ready"`
}

// Status is a condensed view of one blue/green rollout.
type Status struct {
	Name            string    `json:"name"`
	Namespace       string    `json:"namespace"`
	Phase           string    `json:"phase"`
	Message         string    `json:"message,omitempty"`
	Paused          bool      `json:"paused"`
	Aborted         bool      `json:"aborted"`
	Image           string    `json:"image"`
	Revision        string    `json:"revision,omitempty"`
	CurrentPodHash  string    `json:"currentPodHash,omitempty"`
	StablePodHash   string    `json:"stablePodHash,omitempty"`
	Replicas        int64     `json:"replicas"`
	ReadyReplicas   int64     `json:"readyReplicas"`
	UpdatedReplicas int64     `json:"updatedReplicas"`
	Pods            []PodInfo `json:"pods"`
}

// Status reads the rollout and its pods and condenses them into a Status.
func (c *Client) Status(ctx context.Context, namespace, name string) (*Status, error) {
	obj, err := c.get(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	status := &Status{
		Name:      name,
		Namespace: namespace,
	}

	status.Phase, _, _ = unstructured.NestedString(obj.Object, "status", "phase")
	status.Message, _, _ = unstructured.NestedString(obj.Object, "status", "message")
	status.CurrentPodHash, _, _ = unstructured.NestedString(obj.Object, "status", "currentPodHash")
	status.StablePodHash, _, _ = unstructured.NestedString(obj.Object, "status", "stableRS")
	status.Paused, _, _ = unstructured.NestedBool(obj.Object, "spec", "paused")
	status.Aborted, _, _ = unstructured.NestedBool(obj.Object, "status", "abort")
	status.Replicas, _, _ = unstructured.NestedInt64(obj.Object, "status", "replicas")
	status.ReadyReplicas, _, _ = unstructured.NestedInt64(obj.Object, "status", "readyReplicas")
	status.UpdatedReplicas, _, _ = unstructured.NestedInt64(obj.Object, "status", "updatedReplicas")
	status.Revision = obj.GetAnnotations()[RevisionAnnotation]
	status.Image = templateImage(obj)

	pods, err := c.listPods(ctx, obj)
	if err != nil {
		return nil, err
	}
	status.Pods = pods

	return status, nil
}

func templateImage(obj *unstructured.Unstructured) string {
	containers, found, err := unstructured.NestedSlice(obj.Object, "spec", "template", "spec", "containers")
	if err != nil || !found || len(containers) == 0 {
		return ""
	}
	first, ok := containers[0].(map[string]interface{})
	if !ok {
		return ""
	}
	image, _ := first["image"].(string)
	return image
}

func (c *Client) listPods(ctx context.Context, obj *unstructured.Unstructured) ([]PodInfo, error) {
	matchLabels, found, err := unstructured.NestedStringMap(obj.Object, "spec", "selector", "matchLabels")
	if err != nil || !found || len(matchLabels) == 0 {
		// No selector, no pods to report.
		return nil, nil
	}

	selector := labels.SelectorFromSet(matchLabels)
	podList, err := c.clientset.CoreV1().Pods(obj.GetNamespace()).List(ctx, metav1.ListOptions{LabelSelector: selector.String()})
	if err != nil {
		return nil, apperrors.WrapKubernetes(err, "list pods for rollout "+obj.GetName())
	}

	infos := make([]PodInfo, 0, len(podList.Items))
	for _, pod := range podList.Items {
		info := PodInfo{
			Name:         pod.Name,
			TemplateHash: pod.Labels[PodTemplateHashLabel],
			Phase:        string(pod.Status.Phase),
			Ready:        isPodReady(&pod),
		}
		if len(pod.Spec.Containers) > 0 {
			info.Image = pod.Spec.Containers[0].Image
		}
		infos = append(infos, info)
	}

	return infos, nil
}

func isPodReady(pod *corev1.Pod) bool {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
