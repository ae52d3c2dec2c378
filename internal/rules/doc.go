// Package rules decides which bin a card goes to. Rules evaluate in
// priority order with first match winning; without a match, recognized
// cards default right and unrecognized ones left.
package rules
