package rollouts

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
)

// Client operates on Rollout objects through the dynamic client and on
// their pods and ReplicaSets through the typed clientset.
type Client struct {
	dynamicClient dynamic.Interface
	clientset     kubernetes.Interface
	logger        logr.Logger
	recorder      journal.Recorder
}

// NewClient creates a rollouts client. recorder may be nil.
func NewClient(dynamicClient dynamic.Interface, clientset kubernetes.Interface, logger logr.Logger, recorder journal.Recorder) *Client {
	return &Client{
		dynamicClient: dynamicClient,
		clientset:     clientset,
		logger:        logger,
		recorder:      recorder,
	}
}

func (c *Client) get(ctx context.Context, namespace, name string) (*unstructured.Unstructured, error) {
	obj, err := c.dynamicClient.Resource(GVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: rollout %s/%s", apperrors.ErrNotFound, namespace, name)
		}
		return nil, apperrors.WrapKubernetes(err, fmt.Sprintf("get rollout %s/%s", namespace, name))
	}
	return obj, nil
}

func (c *Client) subject(namespace, name string) string {
	return fmt.Sprintf("%s/%s/%s", namespace, Kind, name)
}
