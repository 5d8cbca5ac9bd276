package prefstore

import (
	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// Codec between the typed in-memory trees and the generic trees persisted
// in the property store. The persisted shape under the targets key is
//
//	{ <targetIQN>: {
//	      "Target Data": {...},
//	      "Session Configuration": {...},
//	      "Authentication": "None" | "CHAP",
//	      "Portals": { <portalAddress>: {
//	            "Portal Data": {...},
//	            "Connection Configuration": {...},
//	            "Authentication": "None" | "CHAP"
//	      }, ... }
//	  }, ... }
//
// Unset blobs are written as empty-string placeholders in portal entries
// and omitted in target entries; decoders accept either form.

func encodeTargets(targets map[string]*targetNode) propstore.Tree {
	if targets == nil {
		return nil
	}
	tree := make(propstore.Tree, len(targets))
	for iqn, node := range targets {
		tree[iqn] = encodeTargetNode(node)
	}
	return tree
}

func encodeTargetNode(node *targetNode) propstore.Tree {
	tree := make(propstore.Tree)
	if node.targetData != nil {
		tree[keyTargetData] = propstore.DeepCopy(node.targetData)
	}
	if node.sessionCfg != nil {
		tree[keySessionConfig] = propstore.DeepCopy(node.sessionCfg)
	}
	if node.authMethod != "" {
		tree[keyAuth] = node.authMethod
	}
	if node.portals != nil {
		portals := make(propstore.Tree, len(node.portals))
		for addr, portal := range node.portals {
			portals[addr] = encodePortalNode(portal)
		}
		tree[keyPortals] = portals
	}
	return tree
}

func encodePortalNode(node *portalNode) propstore.Tree {
	tree := make(propstore.Tree)
	if node.portalData != nil {
		tree[keyPortalData] = propstore.DeepCopy(node.portalData)
	} else {
		tree[keyPortalData] = ""
	}
	if node.connCfg != nil {
		tree[keyConnectionConfig] = propstore.DeepCopy(node.connCfg)
	} else {
		tree[keyConnectionConfig] = ""
	}
	tree[keyAuth] = node.authMethod
	return tree
}

func decodeTargets(tree propstore.Tree) map[string]*targetNode {
	if tree == nil {
		return nil
	}
	targets := make(map[string]*targetNode, len(tree))
	for iqn := range tree {
		info := propstore.Subtree(tree, iqn)
		if info == nil {
			continue
		}
		targets[iqn] = decodeTargetNode(info)
	}
	return targets
}

func decodeTargetNode(tree propstore.Tree) *targetNode {
	node := &targetNode{
		targetData: propstore.DeepCopy(propstore.Subtree(tree, keyTargetData)),
		sessionCfg: propstore.DeepCopy(propstore.Subtree(tree, keySessionConfig)),
		authMethod: propstore.String(tree, keyAuth),
	}
	if portals := propstore.Subtree(tree, keyPortals); portals != nil {
		node.portals = make(map[string]*portalNode, len(portals))
		for addr := range portals {
			info := propstore.Subtree(portals, addr)
			if info == nil {
				continue
			}
			node.portals[addr] = &portalNode{
				portalData: propstore.DeepCopy(propstore.Subtree(info, keyPortalData)),
				connCfg:    propstore.DeepCopy(propstore.Subtree(info, keyConnectionConfig)),
				authMethod: propstore.String(info, keyAuth),
			}
		}
	}
	return node
}

func encodeInitiator(node *initiatorNode) propstore.Tree {
	if node == nil {
		return nil
	}
	tree := propstore.Tree{
		keyInitiatorIQN:   node.iqn,
		keyInitiatorAlias: node.alias,
	}
	if node.authMethod != "" {
		tree[keyAuth] = node.authMethod
	}
	return tree
}

func decodeInitiator(tree propstore.Tree) *initiatorNode {
	if tree == nil {
		return nil
	}
	return &initiatorNode{
		iqn:        propstore.String(tree, keyInitiatorIQN),
		alias:      propstore.String(tree, keyInitiatorAlias),
		authMethod: propstore.String(tree, keyAuth),
	}
}
