// Package source turns a folder of rendered thumbnails into an edit.
//
// Thumbnails are named after the frame the shot starts on, with an image
// extension: 0001.png, 0120.jpg, 2041.webp. [Scan] walks a folder, probes
// every matching image for its dimensions and returns the frames in order.
// [Import] builds a [shot.Edit] from a scan with one shot per thumbnail.
//
//	edit, err := source.Import(ctx, "renders/reel-01", source.ImportOptions{FPS: 24})
//
// [Watch] reports changes to files so that viewers can reload an edit or
// a thumbnail folder while it is being worked on.
package source
