// Package rollouts drives the Argo Rollouts control surface: reading
// blue/green status and issuing the promote, abort, retry, and undo
// mutations the upstream kubectl plugin performs.
package rollouts

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	Group    = "argoproj.io"
	Version  = "v1alpha1"
	Kind     = "Rollout"
	Resource = "rollouts"

	// PodTemplateHashLabel is stamped by the controller on every pod and
	// ReplicaSet belonging to a rollout revision.
	PodTemplateHashLabel = "rollouts-pod-template-hash"

	// RevisionAnnotation tracks the revision number on the rollout and
	// its ReplicaSets.
	RevisionAnnotation = "rollout.kubernetes.io/revision"
)

// GVR is the GroupVersionResource of the Rollout custom resource.
var GVR = schema.GroupVersionResource{
	Group:    Group,
	Version:  Version,
	Resource: Resource,
}

// GVK is the GroupVersionKind of the Rollout custom resource.
var GVK = schema.GroupVersionKind{
	Group:   Group,
	Version: Version,
	Kind:    Kind,
}
