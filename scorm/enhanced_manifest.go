package scorm

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmcelroy/docent/mediamap"
	"github.com/jmcelroy/docent/models"
)

// BuildEnhancedManifest renders the manifest variant that lists every
// discovered media resource individually, with LOM metadata and dependency
// links from the main SCO. Used by tooling that inspects media packaging;
// the standard export ships buildManifest.
func BuildEnhancedManifest(course *models.Course, mapping mediamap.Report, packageID string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="%s" version="1"
          xmlns="http://www.imsproject.org/xsd/imscp_rootv1p1p2"
          xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_rootv1p2"
          xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
          xsi:schemaLocation="http://www.imsproject.org/xsd/imscp_rootv1p1p2 imscp_rootv1p1p2.xsd
                              http://www.imsglobal.org/xsd/imsmd_rootv1p2p1 imsmd_rootv1p2p1.xsd
                              http://www.adlnet.org/xsd/adlcp_rootv1p2 adlcp_rootv1p2.xsd">

    <metadata>
        <schema>ADL SCORM</schema>
        <schemaversion>%s</schemaversion>
        <lom xmlns="http://www.imsglobal.org/xsd/imsmd_rootv1p2p1">
            <general>
                <identifier>
                    <catalog>URI</catalog>
                    <entry>%s</entry>
                </identifier>
                <title>
                    <langstring xml:lang="en">%s</langstring>
                </title>
                <description>
                    <langstring xml:lang="en">%s</langstring>
                </description>
                <language>%s</language>
            </general>
            <lifeCycle>
                <version>
                    <langstring xml:lang="en">%s</langstring>
                </version>
                <contribute>
                    <role>
                        <source>LOMv1.0</source>
                        <value>Author</value>
                    </role>
                    <entity>%s</entity>
                    <date>
                        <dateTime>%s</dateTime>
                    </date>
                </contribute>
            </lifeCycle>
        </lom>
    </metadata>

    <organizations default="default_org">
        <organization identifier="default_org">
            <title>%s</title>
            <item identifier="item_1" identifierref="resource_1">
                <title>%s</title>
            </item>
        </organization>
    </organizations>

    <resources>
        <resource identifier="resource_1" type="webcontent" adlcp:scormtype="sco" href="index.html">
            <file href="index.html"/>`,
		packageID,
		scormVersion,
		course.CourseID,
		EscapeXML(course.Title),
		EscapeXML(course.Description),
		course.Language,
		course.Version,
		EscapeXML(course.Author),
		time.Now().Format(time.RFC3339),
		EscapeXML(course.Title),
		EscapeXML(course.Title),
	)

	for _, res := range mapping.Resources {
		fmt.Fprintf(&b, "\n            <dependency identifierref=\"%s\"/>", res.Identifier)
	}
	b.WriteString("\n        </resource>")

	for _, res := range mapping.Resources {
		fmt.Fprintf(&b, `
        <resource identifier="%s" type="%s" href="%s">
            <file href="%s"/>
            <metadata>
                <lom xmlns="http://www.imsglobal.org/xsd/imsmd_rootv1p2p1">
                    <general>
                        <identifier>
                            <catalog>URI</catalog>
                            <entry>%s</entry>
                        </identifier>
                        <title>
                            <langstring xml:lang="en">%s</langstring>
                        </title>
                        <description>
                            <langstring xml:lang="en">%s</langstring>
                        </description>
                    </general>
                    <technical>
                        <format>%s</format>
                        <size>%d</size>
                    </technical>
                </lom>
            </metadata>
        </resource>`,
			res.Identifier,
			res.ResourceType,
			EscapeXML(res.Href),
			EscapeXML(res.Href),
			res.Identifier,
			EscapeXML(res.Metadata.Title),
			EscapeXML(res.Metadata.Description),
			res.MimeType,
			res.FileSize,
		)
	}

	b.WriteString("\n    </resources>\n</manifest>\n")
	return b.String()
}
