// Package kube holds the Kubernetes client plumbing: config resolution,
// manifest parsing, and dynamic server-side apply of arbitrary objects.
package kube

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
)

// RestConfig resolves the cluster connection: in-cluster first, then the
// kubeconfig at path (or $KUBECONFIG / the recommended home file when path
// is empty).
func RestConfig(path string) (*rest.Config, error) {
	config, err := rest.InClusterConfig()
	if err == nil {
		return config, nil
	}

	kubeconfig := path
	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")
	}
	if kubeconfig == "" {
		kubeconfig = clientcmd.RecommendedHomeFile
	}

	config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load kubeconfig from %s: %w", apperrors.ErrKubernetes, kubeconfig, err)
	}
	return config, nil
}

// NewClients creates the typed clientset and dynamic client.
func NewClients(kubeconfigPath string, logger logr.Logger) (kubernetes.Interface, dynamic.Interface, error) {
	logger.V(1).Info("Setting up Kubernetes clients", "kubeconfig", kubeconfigPath)

	config, err := RestConfig(kubeconfigPath)
	if err != nil {
		return nil, nil, err
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create clientset: %w", apperrors.ErrKubernetes, err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create dynamic client: %w", apperrors.ErrKubernetes, err)
	}

	return clientset, dynamicClient, nil
}
