package registry

// rule is the per-registry strategy record. A rule function returning
// ok=false falls through to the generic fallback, mirroring hosts that
// only recognize some of their path layouts (cdn.jsdelivr.net).
type rule struct {
	identity func(p parsed, opts Options) (string, bool)
	label    func(p parsed, m Module, opts Options) ([]string, bool)
	attrs    func(p parsed, base string) (Attrs, bool)
}

var rules = map[Kind]rule{
	KindNonHTTPS:    {identity: identityVerbatim},
	KindLocalFile:   {identity: identityLocalFile, label: labelLocalFile},
	KindDenoLand:    {identity: identityDenoLand, label: labelDenoLand, attrs: attrsDenoLand},
	KindDenoCDN:     {identity: identityDenoCDN, label: labelDenoCDN},
	KindCrux:        {identity: identityCrux, label: labelCrux, attrs: attrsSelfLink(ColorCrux)},
	KindEsmSh:       {identity: identityEsmSh, label: labelFromHost(3), attrs: attrsEsmSh},
	KindEsmCDN:      {identity: identityEsmCDN, label: labelEsmCDN, attrs: attrsEsmCDN},
	KindDreg:        {identity: identityDreg, label: labelDreg, attrs: attrsDreg},
	KindGitHub:      {identity: identityGitHub},
	KindRawGitHub:   {identity: identityRawGitHub, label: labelRawGitHub, attrs: attrsRawGitHub},
	KindGist:        {identity: identityGist, label: labelGist, attrs: attrsGist},
	KindDenoPkg:     {identity: identityDenoPkg},
	KindSkypack:     {identity: identitySkypack, label: labelFromHost(4), attrs: attrsSkypack},
	KindPika:        {identity: identityPika},
	KindJSPM:        {identity: identityJSPM, label: labelJSPM, attrs: attrsJSPM},
	KindJSDelivr:    {identity: identityJSDelivr, label: labelJSDelivr, attrs: attrsJSDelivr},
	KindUnpkg:       {identity: identityUnpkg, label: labelFromHost(3), attrs: attrsUnpkg},
	KindAWSAPI:      {identity: identityAWSAPI, label: labelAWSAPI, attrs: attrsSelfLink(ColorAWSAPI)},
	KindGitHubPages: {identity: identityFirstSegment, label: labelGitHubPages, attrs: attrsGitHubPages},
	KindArweave:     {identity: identityFirstSegment},
}
