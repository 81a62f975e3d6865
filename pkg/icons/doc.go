// Package icons finds icon files by symbolic name in freedesktop icon themes.
package icons
