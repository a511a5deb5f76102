// Package model provides the machine-learning side of the toolkit:
// class-balancing downsampling, stratified cross-validation, ROC AUC
// scoring, a gradient-boosted-tree binary classifier, and a randomized
// hyperparameter search (Study/Trial) that ties them together.
package model
